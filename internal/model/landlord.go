package model

import (
	"strings"
	"time"
)

// Landlord 当前登录的房东 (服务端 landlords 资源)
// Phone 注册后不可修改
type Landlord struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email,omitempty"`
	Location      string    `json:"location"`
	TotalListings int       `json:"total_listings"`
	Rating        FlexFloat `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Initial 头像首字母
func (l *Landlord) Initial() string {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return "L"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// MemberSince 注册年份，未知时返回当前年份
func (l *Landlord) MemberSince() int {
	if l.CreatedAt.IsZero() {
		return time.Now().Year()
	}
	return l.CreatedAt.Year()
}
