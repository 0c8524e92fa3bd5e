package service

import (
	"context"

	"go.uber.org/zap"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
)

// ListingAPI 公开房源接口
type ListingAPI interface {
	ListListings(ctx context.Context, q dto.ListingQuery) (*dto.ListingPage, error)
	GetListing(ctx context.Context, id int64) (*model.Listing, error)
	AddReview(ctx context.Context, id int64, req *dto.ReviewRequest) (*model.Review, error)
	SendInquiry(ctx context.Context, id int64, req *dto.InquiryRequest) error
	Stats(ctx context.Context) (*dto.PlatformStats, error)
}

// ==================== ListingService 房源浏览 ====================

// ListingService 房源浏览、详情、评价与咨询
type ListingService struct {
	api    ListingAPI
	logger *zap.Logger
}

// NewListingService 创建房源服务
func NewListingService(api ListingAPI, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{api: api, logger: logger}
}

// Browse 按条件分页查询
// 没有结果时返回空页，不填充任何占位数据
func (s *ListingService) Browse(ctx context.Context, q dto.ListingQuery) (*dto.ListingPage, error) {
	if q.Sort != "" && !q.Sort.Valid() {
		return nil, ErrInvalidSort
	}
	if q.PropertyType != "" && !q.PropertyType.Valid() {
		return nil, invalid(MsgInvalidType)
	}

	page, err := s.api.ListListings(ctx, q)
	if err != nil {
		s.logger.Warn("[Listing] 查询房源失败", zap.Error(err))
		return nil, err
	}
	if page.Listings == nil {
		page.Listings = []model.Listing{}
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page, nil
}

// Get 房源详情 (含评价与房东信息)
func (s *ListingService) Get(ctx context.Context, id int64) (*model.Listing, error) {
	return s.api.GetListing(ctx, id)
}

// Review 提交评价，本地校验失败不发请求
func (s *ListingService) Review(ctx context.Context, id int64, req *dto.ReviewRequest) (*model.Review, error) {
	if err := ValidateReview(req); err != nil {
		return nil, err
	}
	review, err := s.api.AddReview(ctx, id, req)
	if err != nil {
		s.logger.Warn("[Listing] 提交评价失败", zap.Int64("listing_id", id), zap.Error(err))
		return nil, err
	}
	return review, nil
}

// Inquire 咨询房东
func (s *ListingService) Inquire(ctx context.Context, id int64, req *dto.InquiryRequest) error {
	if err := ValidateInquiry(req); err != nil {
		return err
	}
	if err := s.api.SendInquiry(ctx, id, req); err != nil {
		s.logger.Warn("[Listing] 发送咨询失败", zap.Int64("listing_id", id), zap.Error(err))
		return err
	}
	return nil
}

// PlatformStats 平台概览
func (s *ListingService) PlatformStats(ctx context.Context) (*dto.PlatformStats, error) {
	return s.api.Stats(ctx)
}
