package model

import (
	"sort"
)

// ==================== 草稿约束 ====================

const (
	MinListingPrice    = 1000    // 最低月租 (KES)
	MinAttachments     = 1       // 至少一张图片
	MaxAttachments     = 5       // 最多五张图片
	MaxAttachmentBytes = 5 << 20 // 单张图片上限 5MB
)

// ==================== 设施集合 ====================

// AmenitySet 设施标签集合，构造上不可能重复，顺序无意义
type AmenitySet map[string]struct{}

// NewAmenitySet 从切片构造
func NewAmenitySet(tags ...string) AmenitySet {
	s := AmenitySet{}
	for _, t := range tags {
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// Toggle 有则删，无则加，返回操作后是否存在
func (s AmenitySet) Toggle(tag string) bool {
	if _, ok := s[tag]; ok {
		delete(s, tag)
		return false
	}
	s[tag] = struct{}{}
	return true
}

// List 排序后的标签 (序列化稳定)
func (s AmenitySet) List() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clone 深拷贝
func (s AmenitySet) Clone() AmenitySet {
	c := make(AmenitySet, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

// ==================== 图片附件 ====================

// Attachment 待上传图片
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size 字节数
func (a Attachment) Size() int { return len(a.Data) }

// ==================== 草稿房源 ====================

// DraftListing 发布向导中尚未提交的房源
// 零值表示"未填写"，可选数字字段用指针区分 0 与未填
type DraftListing struct {
	Title        string       `validate:"required"`
	Location     string       `validate:"required"`
	PropertyType PropertyType `validate:"required,property_type"`
	Price        int64        `validate:"required,min=1000"`

	Description   string
	SubLocation   string
	Deposit       *int64
	ContactPhone  string
	AvailableFrom string
	FloorNumber   *int
	TotalFloors   *int
	SizeSqft      *int

	Amenities AmenitySet

	// MpesaPhone 支付手机号，提交时校验
	MpesaPhone string
}

// NewDraftListing 空草稿
func NewDraftListing() *DraftListing {
	return &DraftListing{Amenities: AmenitySet{}}
}

// Clone 深拷贝，避免调用方修改向导内部状态
func (d *DraftListing) Clone() *DraftListing {
	c := *d
	c.Amenities = d.Amenities.Clone()
	if d.Deposit != nil {
		v := *d.Deposit
		c.Deposit = &v
	}
	c.FloorNumber = cloneIntPtr(d.FloorNumber)
	c.TotalFloors = cloneIntPtr(d.TotalFloors)
	c.SizeSqft = cloneIntPtr(d.SizeSqft)
	return &c
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
