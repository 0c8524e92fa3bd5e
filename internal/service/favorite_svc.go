package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/internal/repository"
	"nhv_landlord_client/pkg/net"
)

// ==================== FavoriteService 本地收藏 ====================

// FavoriteService 收藏只保存在本地，没有服务端数据
type FavoriteService struct {
	favorites repository.FavoriteRepository
	listings  ListingAPI
	logger    *zap.Logger
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(favorites repository.FavoriteRepository, listings ListingAPI, logger *zap.Logger) *FavoriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteService{favorites: favorites, listings: listings, logger: logger}
}

// Toggle 切换收藏，返回切换后是否已收藏
func (s *FavoriteService) Toggle(ctx context.Context, listingID int64) (bool, error) {
	exists, err := s.favorites.Exists(ctx, listingID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, s.favorites.Remove(ctx, listingID)
	}
	return true, s.favorites.Add(ctx, listingID)
}

// Add 收藏
func (s *FavoriteService) Add(ctx context.Context, listingID int64) error {
	return s.favorites.Add(ctx, listingID)
}

// Remove 取消收藏
func (s *FavoriteService) Remove(ctx context.Context, listingID int64) error {
	return s.favorites.Remove(ctx, listingID)
}

// IsFavorite 是否已收藏
func (s *FavoriteService) IsFavorite(ctx context.Context, listingID int64) (bool, error) {
	return s.favorites.Exists(ctx, listingID)
}

// IDs 收藏的房源 ID，按收藏时间
func (s *FavoriteService) IDs(ctx context.Context) ([]int64, error) {
	return s.favorites.List(ctx)
}

// Listings 拉取收藏房源详情，服务端已删除的房源跳过
func (s *FavoriteService) Listings(ctx context.Context) ([]model.Listing, error) {
	ids, err := s.favorites.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := s.listings.GetListing(ctx, id)
		if errors.Is(err, net.ErrNotFound) {
			s.logger.Debug("[Favorite] 收藏的房源已不存在", zap.Int64("listing_id", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *listing)
	}
	return out, nil
}
