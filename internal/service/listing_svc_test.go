package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/pkg/net"
)

func TestListingService_BrowseEmpty(t *testing.T) {
	env := newTestEnv(t)
	svc := NewListingService(env.client, nil)

	page, err := svc.Browse(context.Background(), dto.ListingQuery{Location: "Runda"})
	require.NoError(t, err)
	assert.NotNil(t, page.Listings)
	assert.Empty(t, page.Listings)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListingService_BrowsePaging(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 14; i++ {
		env.fake.SeedListing(model.Listing{Title: "L", Location: "Kasarani", Price: 9000, Status: model.ListingStatusActive}, "")
	}
	svc := NewListingService(env.client, nil)

	page, err := svc.Browse(context.Background(), dto.ListingQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Listings, 2)
	assert.Equal(t, 14, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListingService_BrowseRejectsUnknownOptions(t *testing.T) {
	env := newTestEnv(t)
	svc := NewListingService(env.client, nil)

	_, err := svc.Browse(context.Background(), dto.ListingQuery{Sort: "cheapest"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = svc.Browse(context.Background(), dto.ListingQuery{PropertyType: "castle"})
	assert.Equal(t, MsgInvalidType, Message(err, ""))
	assert.Equal(t, 0, env.fake.TotalCalls())
}

func TestListingService_GetNotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := NewListingService(env.client, nil)

	_, err := svc.Get(context.Background(), 999)
	assert.True(t, errors.Is(err, net.ErrNotFound))
}

func TestListingService_ReviewAndInquire(t *testing.T) {
	env := newTestEnv(t)
	id := env.fake.SeedListing(model.Listing{Title: "A", Status: model.ListingStatusActive}, "")
	svc := NewListingService(env.client, nil)
	ctx := context.Background()

	_, err := svc.Review(ctx, id, &dto.ReviewRequest{ReviewerName: "", Rating: 4})
	assert.Equal(t, MsgReviewName, Message(err, ""))
	assert.Equal(t, 0, env.fake.TotalCalls())

	review, err := svc.Review(ctx, id, &dto.ReviewRequest{ReviewerName: "Tom", Rating: 4, Comment: "Quiet area"})
	require.NoError(t, err)
	assert.Equal(t, "Quiet area", review.Comment)

	listing, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, listing.ReviewCount)
	assert.InDelta(t, 4.0, listing.AvgRating.Float64(), 0.001)

	err = svc.Inquire(ctx, id, &dto.InquiryRequest{Name: "Tom"})
	assert.Equal(t, MsgInquiryRequired, Message(err, ""))
	require.NoError(t, svc.Inquire(ctx, id, &dto.InquiryRequest{Name: "Tom", Phone: "0722000000", Message: "Viewing?"}))
}

func TestListingService_PlatformStats(t *testing.T) {
	env := newTestEnv(t)
	env.fake.SeedListing(model.Listing{Location: "Karen", Status: model.ListingStatusActive}, "")
	env.fake.SeedListing(model.Listing{Location: "Ruaka", Status: model.ListingStatusActive}, "")
	env.fake.SeedListing(model.Listing{Location: "Ruaka", Status: model.ListingStatusPending}, "")

	stats, err := NewListingService(env.client, nil).PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ActiveListings)
	assert.Equal(t, 2, stats.Locations)
}
