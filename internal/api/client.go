package api

import (
	"context"
	"net/http"
	"strconv"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/pkg/net"
)

// Client 房源平台 REST API
// 所有方法返回的错误均为 *net.APIError
type Client struct {
	http *net.Client
}

// NewClient 创建 API 客户端
func NewClient(transport *net.Client) *Client {
	return &Client{http: transport}
}

func idParam(id int64) net.RequestOption {
	return net.WithPathParam("id", strconv.FormatInt(id, 10))
}

// ==================== Listings ====================

// ListListings GET /listings
func (c *Client) ListListings(ctx context.Context, q dto.ListingQuery) (*dto.ListingPage, error) {
	var page dto.ListingPage
	err := c.http.Do(ctx, http.MethodGet, "/listings",
		net.WithQuery(q.Params()),
		net.WithResult(&page),
	)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetListing GET /listings/{id}
func (c *Client) GetListing(ctx context.Context, id int64) (*model.Listing, error) {
	var listing model.Listing
	if err := c.http.Do(ctx, http.MethodGet, "/listings/{id}", idParam(id), net.WithResult(&listing)); err != nil {
		return nil, err
	}
	return &listing, nil
}

// CreateListing POST /listings (multipart，图片按顺序上传)
func (c *Client) CreateListing(ctx context.Context, form *dto.CreateListingForm) (*model.SubmissionResult, error) {
	files := make([]net.FilePart, 0, len(form.Images))
	for _, img := range form.Images {
		files = append(files, net.FilePart{
			Param:       "images",
			Filename:    img.Filename,
			ContentType: img.ContentType,
			Data:        img.Data,
		})
	}

	var result model.SubmissionResult
	err := c.http.Do(ctx, http.MethodPost, "/listings",
		net.WithMultipart(form.Fields, files),
		net.WithResult(&result),
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ActivateListing POST /listings/{id}/activate (演示模式手动激活)
func (c *Client) ActivateListing(ctx context.Context, id int64) error {
	return c.http.Do(ctx, http.MethodPost, "/listings/{id}/activate", idParam(id))
}

// DeleteListing DELETE /listings/{id}
func (c *Client) DeleteListing(ctx context.Context, id int64) error {
	return c.http.Do(ctx, http.MethodDelete, "/listings/{id}", idParam(id))
}

// AddReview POST /listings/{id}/reviews
func (c *Client) AddReview(ctx context.Context, id int64, req *dto.ReviewRequest) (*model.Review, error) {
	var review model.Review
	err := c.http.Do(ctx, http.MethodPost, "/listings/{id}/reviews",
		idParam(id),
		net.WithJSON(req),
		net.WithResult(&review),
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// SendInquiry POST /listings/{id}/inquire
func (c *Client) SendInquiry(ctx context.Context, id int64, req *dto.InquiryRequest) error {
	return c.http.Do(ctx, http.MethodPost, "/listings/{id}/inquire", idParam(id), net.WithJSON(req))
}

// PaymentStatus GET /listings/payment/status/{checkout_request_id}
func (c *Client) PaymentStatus(ctx context.Context, checkoutRequestID string) (*dto.PaymentStatusResponse, error) {
	var resp dto.PaymentStatusResponse
	err := c.http.Do(ctx, http.MethodGet, "/listings/payment/status/{checkout}",
		net.WithPathParam("checkout", checkoutRequestID),
		net.WithResult(&resp),
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats GET /listings/stats/overview
func (c *Client) Stats(ctx context.Context) (*dto.PlatformStats, error) {
	var stats dto.PlatformStats
	if err := c.http.Do(ctx, http.MethodGet, "/listings/stats/overview", net.WithResult(&stats)); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ==================== Landlords ====================

// Register POST /landlords/register
func (c *Client) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	err := c.http.Do(net.WithoutSessionReset(ctx), http.MethodPost, "/landlords/register",
		net.WithJSON(req),
		net.WithResult(&resp),
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login POST /landlords/login
func (c *Client) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	err := c.http.Do(net.WithoutSessionReset(ctx), http.MethodPost, "/landlords/login",
		net.WithJSON(req),
		net.WithResult(&resp),
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile GET /landlords/profile
func (c *Client) GetProfile(ctx context.Context) (*model.Landlord, error) {
	var landlord model.Landlord
	if err := c.http.Do(ctx, http.MethodGet, "/landlords/profile", net.WithResult(&landlord)); err != nil {
		return nil, err
	}
	return &landlord, nil
}

// UpdateProfile PUT /landlords/profile
func (c *Client) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.Landlord, error) {
	var landlord model.Landlord
	err := c.http.Do(ctx, http.MethodPut, "/landlords/profile",
		net.WithJSON(req),
		net.WithResult(&landlord),
	)
	if err != nil {
		return nil, err
	}
	return &landlord, nil
}

// MyListings GET /landlords/listings
func (c *Client) MyListings(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	if err := c.http.Do(ctx, http.MethodGet, "/landlords/listings", net.WithResult(&listings)); err != nil {
		return nil, err
	}
	return listings, nil
}
