package model

import (
	"time"

	"gorm.io/datatypes"
)

// SessionRowID 本地会话只有一行
const SessionRowID = 1

// SessionRecord 本地持久化的登录凭证与房东信息
type SessionRecord struct {
	ID        int64          `gorm:"primaryKey;autoIncrement:false"`
	Token     string         `gorm:"type:text"`
	Landlord  datatypes.JSON `gorm:"type:text"`
	UpdatedAt time.Time
}

func (SessionRecord) TableName() string {
	return "client_sessions"
}

// Favorite 本地收藏 (没有服务端数据源)
type Favorite struct {
	ListingID int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "favorites"
}
