package service

import (
	"context"

	"go.uber.org/zap"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
)

// RecentListingsLimit 仪表盘展示的最近房源数量
const RecentListingsLimit = 5

// LandlordAPI 房东自己的房源管理接口
type LandlordAPI interface {
	MyListings(ctx context.Context) ([]model.Listing, error)
	DeleteListing(ctx context.Context, id int64) error
	ActivateListing(ctx context.Context, id int64) error
}

// ==================== LandlordService 房源管理 ====================

// LandlordService 我的房源、仪表盘统计
type LandlordService struct {
	api    LandlordAPI
	auth   *AuthService
	logger *zap.Logger
}

// NewLandlordService 创建房东服务
func NewLandlordService(api LandlordAPI, auth *AuthService, logger *zap.Logger) *LandlordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LandlordService{api: api, auth: auth, logger: logger}
}

func (s *LandlordService) requireLogin(ctx context.Context) error {
	if s.auth.Current(ctx) == nil {
		return ErrNotLoggedIn
	}
	return nil
}

// MyListings 当前房东的全部房源
func (s *LandlordService) MyListings(ctx context.Context) ([]model.Listing, error) {
	if err := s.requireLogin(ctx); err != nil {
		return nil, err
	}
	listings, err := s.api.MyListings(ctx)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []model.Listing{}
	}
	return listings, nil
}

// Dashboard 仪表盘统计
func (s *LandlordService) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	listings, err := s.MyListings(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeDashboard(listings), nil
}

// ComputeDashboard 由房源列表计算统计，收入 = 已支付数 × 刊登费
func ComputeDashboard(listings []model.Listing) *dto.DashboardStats {
	stats := &dto.DashboardStats{Total: len(listings)}
	for i := range listings {
		l := &listings[i]
		switch l.Status {
		case model.ListingStatusActive:
			stats.Active++
		case model.ListingStatusPending:
			stats.Pending++
		}
		stats.TotalViews += l.Views
		if l.IsPaid() {
			stats.Revenue += model.ListingFeeKES
		}
	}

	n := len(listings)
	if n > RecentListingsLimit {
		n = RecentListingsLimit
	}
	stats.Recent = append([]model.Listing{}, listings[:n]...)
	return stats
}

// Delete 删除房源
func (s *LandlordService) Delete(ctx context.Context, id int64) error {
	if err := s.requireLogin(ctx); err != nil {
		return err
	}
	if err := s.api.DeleteListing(ctx, id); err != nil {
		s.logger.Warn("[Landlord] 删除房源失败", zap.Int64("listing_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("[Landlord] 房源已删除", zap.Int64("listing_id", id))
	return nil
}

// Activate 手动激活 (演示模式)
func (s *LandlordService) Activate(ctx context.Context, id int64) error {
	if err := s.requireLogin(ctx); err != nil {
		return err
	}
	if err := s.api.ActivateListing(ctx, id); err != nil {
		s.logger.Warn("[Landlord] 激活房源失败", zap.Int64("listing_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("[Landlord] 房源已激活", zap.Int64("listing_id", id))
	return nil
}
