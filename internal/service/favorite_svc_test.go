package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhv_landlord_client/internal/model"
)

func TestFavoriteService_Toggle(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.favorites, env.client, nil)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, 42)
	require.NoError(t, err)
	assert.True(t, on)

	fav, err := svc.IsFavorite(ctx, 42)
	require.NoError(t, err)
	assert.True(t, fav)

	on, err = svc.Toggle(ctx, 42)
	require.NoError(t, err)
	assert.False(t, on)

	ids, err := svc.IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFavoriteService_ListingsSkipsDeleted(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.favorites, env.client, nil)
	ctx := context.Background()

	kept := env.fake.SeedListing(model.Listing{Title: "Still here", Status: model.ListingStatusActive}, "")
	require.NoError(t, svc.Add(ctx, kept))
	require.NoError(t, svc.Add(ctx, 777))
	require.NoError(t, svc.Add(ctx, kept))

	listings, err := svc.Listings(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Still here", listings[0].Title)

	require.NoError(t, svc.Remove(ctx, kept))
	ids, err := svc.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{777}, ids)
}
