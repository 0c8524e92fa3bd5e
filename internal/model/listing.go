package model

import "time"

// ==================== 房源类型 ====================

// PropertyType 房源类型
type PropertyType string

const (
	PropertyBedsitter    PropertyType = "bedsitter"
	PropertySingleRoom   PropertyType = "single_room"
	PropertyOneBedroom   PropertyType = "one_bedroom"
	PropertyTwoBedroom   PropertyType = "two_bedroom"
	PropertyThreeBedroom PropertyType = "three_bedroom"
)

// PropertyTypes 下拉框顺序
var PropertyTypes = []PropertyType{
	PropertyBedsitter,
	PropertySingleRoom,
	PropertyOneBedroom,
	PropertyTwoBedroom,
	PropertyThreeBedroom,
}

var propertyTypeLabels = map[PropertyType]string{
	PropertyBedsitter:    "Bedsitter",
	PropertySingleRoom:   "Single Room",
	PropertyOneBedroom:   "One Bedroom",
	PropertyTwoBedroom:   "Two Bedroom",
	PropertyThreeBedroom: "Three Bedroom",
}

// Valid 是否为已知类型
func (t PropertyType) Valid() bool {
	_, ok := propertyTypeLabels[t]
	return ok
}

// Label 展示名称
func (t PropertyType) Label() string {
	if l, ok := propertyTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// ==================== 房源状态 ====================

const (
	ListingStatusActive  = "active"
	ListingStatusPending = "pending"

	ListingPaymentPaid   = "paid"
	ListingPaymentUnpaid = "unpaid"
)

// ListingSort 列表排序
type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortPriceAsc  ListingSort = "price_asc"
	SortPriceDesc ListingSort = "price_desc"
	SortPopular   ListingSort = "popular"
)

// Valid 是否为服务端支持的排序
func (s ListingSort) Valid() bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortPopular:
		return true
	}
	return false
}

// Locations 内罗毕常用区域 (注册、发布、筛选共用)
var Locations = []string{
	"Westlands", "Kilimani", "Kasarani", "Embakasi", "Langata",
	"Karen", "Kileleshwa", "Lavington", "South B", "South C",
	"Thika Road", "Ruaka", "Rongai", "Ngong Road", "Upperhill",
	"Gigiri", "Runda", "Muthaiga", "Spring Valley", "Parklands", "Other",
}

// Amenities 发布页可选设施
var Amenities = []string{
	"WiFi", "Parking", "Security", "Water", "Electricity", "Furnished",
	"Gym", "Pool", "Garden", "CCTV", "Backup Generator", "Elevator",
	"Balcony", "Air Conditioning", "Study Room",
}

// ==================== 房源实体 ====================

// Listing 服务端房源 (列表与详情共用，详情额外带 Reviews 与房东信息)
type Listing struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	SubLocation   string       `json:"sub_location"`
	PropertyType  PropertyType `json:"property_type"`
	Price         FlexFloat    `json:"price"`
	Deposit       FlexFloat    `json:"deposit"`
	Amenities     []string     `json:"amenities"`
	Images        []string     `json:"images"` // 第一张为封面
	Status        string       `json:"status"`
	PaymentStatus string       `json:"payment_status"`
	Views         int          `json:"views"`
	ContactPhone  string       `json:"contact_phone"`
	AvailableFrom string       `json:"available_from"`
	FloorNumber   FlexInt      `json:"floor_number"`
	TotalFloors   FlexInt      `json:"total_floors"`
	SizeSqft      FlexInt      `json:"size_sqft"`
	AvgRating     FlexFloat    `json:"avg_rating"`
	ReviewCount   int          `json:"review_count"`
	Reviews       []Review     `json:"reviews,omitempty"`

	LandlordName     string `json:"landlord_name"`
	LandlordPhone    string `json:"landlord_phone"`
	LandlordLocation string `json:"landlord_location"`

	CreatedAt time.Time `json:"created_at"`
}

// CoverImage 封面图路径，没有图片时为空
func (l *Listing) CoverImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// IsActive 已上架
func (l *Listing) IsActive() bool { return l.Status == ListingStatusActive }

// IsPaid 已支付刊登费
func (l *Listing) IsPaid() bool { return l.PaymentStatus == ListingPaymentPaid }

// Review 房源评价
type Review struct {
	ID           int64     `json:"id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
