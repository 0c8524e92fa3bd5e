package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nhv_landlord_client/internal/model"
)

// ==================== FavoriteRepository 收藏仓库 ====================

// FavoriteRepository 本地收藏，按存储文件隔离
type FavoriteRepository interface {
	Add(ctx context.Context, listingID int64) error
	Remove(ctx context.Context, listingID int64) error
	Exists(ctx context.Context, listingID int64) (bool, error)
	List(ctx context.Context) ([]int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓库
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add 收藏，重复收藏不报错
func (r *favoriteRepository) Add(ctx context.Context, listingID int64) error {
	fav := model.Favorite{ListingID: listingID, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
}

// Remove 取消收藏
func (r *favoriteRepository) Remove(ctx context.Context, listingID int64) error {
	return r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&model.Favorite{}).Error
}

// Exists 是否已收藏
func (r *favoriteRepository) Exists(ctx context.Context, listingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	return count > 0, err
}

// List 按收藏时间排序
func (r *favoriteRepository) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Order("created_at ASC, listing_id ASC").
		Pluck("listing_id", &ids).Error
	return ids, err
}
