package dto

import (
	"net/url"
	"strconv"

	"nhv_landlord_client/internal/model"
)

// DefaultPageSize 列表页每页条数
const DefaultPageSize = 12

// ==================== 列表查询 ====================

// ListingQuery 房源筛选条件，零值字段不发送
type ListingQuery struct {
	Location     string
	PropertyType model.PropertyType
	MinPrice     int64
	MaxPrice     int64
	Sort         model.ListingSort
	Page         int
	Limit        int
}

// HasFilters 是否设置了筛选 (不含排序与分页)
func (q ListingQuery) HasFilters() bool {
	return q.Location != "" || q.PropertyType != "" || q.MinPrice > 0 || q.MaxPrice > 0
}

// Params 转查询参数
func (q ListingQuery) Params() map[string]string {
	sort := q.Sort
	if sort == "" {
		sort = model.SortNewest
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}

	params := map[string]string{
		"sort":  string(sort),
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if q.Location != "" {
		params["location"] = q.Location
	}
	if q.PropertyType != "" {
		params["property_type"] = string(q.PropertyType)
	}
	if q.MinPrice > 0 {
		params["min_price"] = strconv.FormatInt(q.MinPrice, 10)
	}
	if q.MaxPrice > 0 {
		params["max_price"] = strconv.FormatInt(q.MaxPrice, 10)
	}
	return params
}

// ListingPage 列表响应
type ListingPage struct {
	Listings   []model.Listing `json:"listings"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

// ==================== 创建房源 ====================

// CreateListingForm 创建房源的 multipart 载荷
// Images 顺序即用户选择顺序，Images[0] 为封面
type CreateListingForm struct {
	Fields url.Values
	Images []model.Attachment
}

// NewCreateListingForm 由草稿构建载荷：只包含非空标量字段，设施按多值字段写出
func NewCreateListingForm(d *model.DraftListing, images []model.Attachment) *CreateListingForm {
	fields := url.Values{}
	setString := func(k, v string) {
		if v != "" {
			fields.Set(k, v)
		}
	}
	setInt := func(k string, v *int) {
		if v != nil {
			fields.Set(k, strconv.Itoa(*v))
		}
	}

	setString("title", d.Title)
	setString("description", d.Description)
	setString("location", d.Location)
	setString("sub_location", d.SubLocation)
	setString("property_type", string(d.PropertyType))
	if d.Price > 0 {
		fields.Set("price", strconv.FormatInt(d.Price, 10))
	}
	if d.Deposit != nil {
		fields.Set("deposit", strconv.FormatInt(*d.Deposit, 10))
	}
	setString("contact_phone", d.ContactPhone)
	setString("available_from", d.AvailableFrom)
	setInt("floor_number", d.FloorNumber)
	setInt("total_floors", d.TotalFloors)
	setInt("size_sqft", d.SizeSqft)
	setString("mpesa_phone", d.MpesaPhone)

	for _, a := range d.Amenities.List() {
		fields.Add("amenities", a)
	}

	ordered := make([]model.Attachment, len(images))
	copy(ordered, images)
	return &CreateListingForm{Fields: fields, Images: ordered}
}

// ==================== 评价与咨询 ====================

// ReviewRequest 添加评价
type ReviewRequest struct {
	ReviewerName string `json:"reviewer_name" validate:"required"`
	Rating       int    `json:"rating" validate:"min=1,max=5"`
	Comment      string `json:"comment"`
}

// InquiryRequest 咨询房东
type InquiryRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ==================== 其他响应 ====================

// PaymentStatusResponse 支付状态
type PaymentStatusResponse struct {
	Status model.PaymentStatus `json:"status"`
}

// MessageResponse 通用确认
type MessageResponse struct {
	Message string `json:"message"`
}

// PlatformStats 平台概览 (首页)
type PlatformStats struct {
	ActiveListings int `json:"active_listings"`
	TotalLandlords int `json:"total_landlords"`
	Locations      int `json:"locations"`
}
