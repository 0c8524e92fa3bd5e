package api_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhv_landlord_client/internal/api"
	"nhv_landlord_client/internal/api/apitest"
	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/pkg/net"
)

// ==================== 测试辅助 ====================

type memCreds struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (m *memCreds) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memCreds) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

func setupClient(t *testing.T) (*api.Client, *apitest.FakeAPI, *memCreds) {
	fake := apitest.NewFakeAPI(t)
	creds := &memCreds{}
	transport := net.NewClient(net.Config{BaseURL: fake.BaseURL()}, creds, nil)
	return api.NewClient(transport), fake, creds
}

func pngBytes() []byte {
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
}

// ==================== Landlords ====================

func TestClient_RegisterThenLogin(t *testing.T) {
	client, _, _ := setupClient(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, &dto.RegisterRequest{
		Name: "Jane", Location: "Kilimani", Phone: "0712345678", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "0712345678", reg.Landlord.Phone)

	login, err := client.Login(ctx, &dto.LoginRequest{Phone: "0712345678", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.Landlord.ID, login.Landlord.ID)
}

func TestClient_LoginRejectedKeepsSession(t *testing.T) {
	client, _, creds := setupClient(t)
	creds.token = "existing"

	_, err := client.Login(context.Background(), &dto.LoginRequest{Phone: "0799999999", Password: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, net.ErrUnauthorized))
	assert.Equal(t, "Invalid credentials", net.ServerMessage(err))
	assert.Equal(t, 0, creds.cleared)
	assert.Equal(t, "existing", creds.token)
}

func TestClient_ExpiredTokenClearsSession(t *testing.T) {
	client, fake, creds := setupClient(t)
	creds.token = fake.SeedLandlord(model.Landlord{Name: "Jane", Phone: "0712345678"}, "secret1")
	fake.RevokeTokens()

	_, err := client.GetProfile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, net.ErrUnauthorized))
	assert.Equal(t, 1, creds.cleared)
	assert.Empty(t, creds.token)
}

func TestClient_UpdateProfile(t *testing.T) {
	client, fake, creds := setupClient(t)
	creds.token = fake.SeedLandlord(model.Landlord{Name: "Jane", Phone: "0712345678", Location: "Karen"}, "secret1")

	updated, err := client.UpdateProfile(context.Background(), &dto.UpdateProfileRequest{
		Name: "Jane W", Location: "Westlands", Email: "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane W", updated.Name)
	assert.Equal(t, "Westlands", updated.Location)
	assert.Equal(t, "0712345678", updated.Phone)
}

// ==================== Listings ====================

func TestClient_ListListingsFilters(t *testing.T) {
	client, fake, _ := setupClient(t)
	fake.SeedListing(model.Listing{Title: "A", Location: "Kilimani", PropertyType: model.PropertyBedsitter, Price: 8000, Status: model.ListingStatusActive}, "")
	fake.SeedListing(model.Listing{Title: "B", Location: "Karen", PropertyType: model.PropertyOneBedroom, Price: 25000, Status: model.ListingStatusActive}, "")
	fake.SeedListing(model.Listing{Title: "C", Location: "Kilimani", PropertyType: model.PropertyOneBedroom, Price: 30000, Status: model.ListingStatusPending}, "")

	page, err := client.ListListings(context.Background(), dto.ListingQuery{Location: "Kilimani"})
	require.NoError(t, err)
	require.Len(t, page.Listings, 1)
	assert.Equal(t, "A", page.Listings[0].Title)
	assert.Equal(t, 1, page.Total)

	page, err = client.ListListings(context.Background(), dto.ListingQuery{Sort: model.SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, page.Listings, 2)
	assert.Equal(t, "B", page.Listings[0].Title)
}

func TestClient_GetListingNotFound(t *testing.T) {
	client, _, _ := setupClient(t)

	_, err := client.GetListing(context.Background(), 424242)
	require.Error(t, err)
	assert.True(t, errors.Is(err, net.ErrNotFound))
	assert.Equal(t, "Listing not found", net.UserMessage(err, "fallback"))
}

func TestClient_CreateListingMultipart(t *testing.T) {
	client, fake, creds := setupClient(t)
	creds.token = fake.SeedLandlord(model.Landlord{Name: "Jane", Phone: "0712345678"}, "secret1")

	draft := model.NewDraftListing()
	draft.Title = "Cozy bedsitter"
	draft.Location = "Kilimani"
	draft.PropertyType = model.PropertyBedsitter
	draft.Price = 8500
	draft.MpesaPhone = "0712345678"
	draft.Amenities.Toggle("Water")
	draft.Amenities.Toggle("WiFi")

	images := []model.Attachment{
		{Filename: "front.png", ContentType: "image/png", Data: pngBytes()},
		{Filename: "kitchen.png", ContentType: "image/png", Data: pngBytes()},
	}

	result, err := client.CreateListing(context.Background(), dto.NewCreateListingForm(draft, images))
	require.NoError(t, err)
	assert.NotZero(t, result.ListingID)
	assert.NotEmpty(t, result.CheckoutRequestID)
	assert.False(t, result.MpesaDemo)

	upload := fake.LastUpload()
	require.NotNil(t, upload)
	assert.Equal(t, []string{"front.png", "kitchen.png"}, upload.ImageNames)
	assert.Equal(t, []string{"Water", "WiFi"}, upload.Fields["amenities"])
	assert.Equal(t, "8500", upload.Fields.Get("price"))
	_, hasDescription := upload.Fields["description"]
	assert.False(t, hasDescription)
	assert.Equal(t, 1, fake.Calls("POST /api/listings"))
}

func TestClient_PaymentStatus(t *testing.T) {
	client, fake, _ := setupClient(t)
	fake.PaymentScript = []model.PaymentStatus{model.PaymentPending, model.PaymentCompleted}

	first, err := client.PaymentStatus(context.Background(), "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, first.Status)

	second, err := client.PaymentStatus(context.Background(), "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, second.Status)
	assert.Equal(t, 2, fake.PaymentQueries())
}

func TestClient_ActivateAndDelete(t *testing.T) {
	client, fake, creds := setupClient(t)
	creds.token = fake.SeedLandlord(model.Landlord{Name: "Jane", Phone: "0712345678"}, "secret1")
	id := fake.SeedListing(model.Listing{Title: "A", Status: model.ListingStatusPending}, "0712345678")

	require.NoError(t, client.ActivateListing(context.Background(), id))
	assert.True(t, fake.Listing(id).IsActive())
	assert.True(t, fake.Listing(id).IsPaid())

	mine, err := client.MyListings(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, client.DeleteListing(context.Background(), id))
	assert.Nil(t, fake.Listing(id))
}

func TestClient_ReviewInquiryStats(t *testing.T) {
	client, fake, _ := setupClient(t)
	id := fake.SeedListing(model.Listing{Title: "A", Location: "Karen", Status: model.ListingStatusActive}, "")

	review, err := client.AddReview(context.Background(), id, &dto.ReviewRequest{ReviewerName: "Tom", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)

	require.NoError(t, client.SendInquiry(context.Background(), id, &dto.InquiryRequest{
		Name: "Tom", Phone: "0722000000", Message: "Still available?",
	}))

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveListings)
	assert.Equal(t, 1, stats.Locations)
}
