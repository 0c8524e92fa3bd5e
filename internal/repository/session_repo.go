package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nhv_landlord_client/internal/model"
)

// ==================== SessionRepository 本地会话仓库 ====================

// SessionRepository 登录凭证与房东信息的持久化
// 多个命令可能读写同一文件，写入按最后写者为准，不加锁
type SessionRepository interface {
	// Save 同时写入凭证与房东信息
	Save(ctx context.Context, token string, landlord *model.Landlord) error
	// Load 读取会话，不存在时返回空值
	Load(ctx context.Context) (string, *model.Landlord, error)
	// Token 当前凭证，未登录为空串
	Token(ctx context.Context) (string, error)
	// UpdateLandlord 只刷新房东信息 (资料修改后)
	UpdateLandlord(ctx context.Context, landlord *model.Landlord) error
	// Clear 清空凭证与房东信息，幂等
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Save 写入会话
func (r *sessionRepository) Save(ctx context.Context, token string, landlord *model.Landlord) error {
	raw, err := json.Marshal(landlord)
	if err != nil {
		return fmt.Errorf("encode landlord failed: %w", err)
	}

	record := model.SessionRecord{
		ID:        model.SessionRowID,
		Token:     token,
		Landlord:  raw,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "landlord", "updated_at"}),
		}).
		Create(&record).Error
}

// Load 读取会话
func (r *sessionRepository) Load(ctx context.Context) (string, *model.Landlord, error) {
	record, err := r.get(ctx)
	if err != nil || record == nil {
		return "", nil, err
	}

	if len(record.Landlord) == 0 || string(record.Landlord) == "null" {
		return record.Token, nil, nil
	}

	var landlord model.Landlord
	if err := json.Unmarshal(record.Landlord, &landlord); err != nil {
		return record.Token, nil, fmt.Errorf("decode stored landlord failed: %w", err)
	}
	return record.Token, &landlord, nil
}

// Token 读取凭证
func (r *sessionRepository) Token(ctx context.Context) (string, error) {
	record, err := r.get(ctx)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}

// UpdateLandlord 刷新房东信息，保留凭证
func (r *sessionRepository) UpdateLandlord(ctx context.Context, landlord *model.Landlord) error {
	raw, err := json.Marshal(landlord)
	if err != nil {
		return fmt.Errorf("encode landlord failed: %w", err)
	}
	return r.db.WithContext(ctx).
		Model(&model.SessionRecord{}).
		Where("id = ?", model.SessionRowID).
		Updates(map[string]interface{}{
			"landlord":   raw,
			"updated_at": time.Now(),
		}).Error
}

// Clear 删除会话行
func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("id = ?", model.SessionRowID).
		Delete(&model.SessionRecord{}).Error
}

func (r *sessionRepository) get(ctx context.Context) (*model.SessionRecord, error) {
	var record model.SessionRecord
	err := r.db.WithContext(ctx).First(&record, model.SessionRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
