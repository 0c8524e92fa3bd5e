package dto

import "nhv_landlord_client/internal/model"

// ==================== 登录注册 ====================

// LoginRequest 登录请求
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest 注册请求 (发送给服务端的完整资料)
type RegisterRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// RegistrationForm 注册表单 (含确认密码，只在本地校验)
type RegistrationForm struct {
	Name     string `validate:"required"`
	Location string `validate:"required"`
	Phone    string `validate:"required,mpesa_phone"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"eqfield=Password"`
}

// ToRequest 去掉确认密码
func (f *RegistrationForm) ToRequest() *RegisterRequest {
	return &RegisterRequest{
		Name:     f.Name,
		Location: f.Location,
		Phone:    f.Phone,
		Email:    f.Email,
		Password: f.Password,
	}
}

// AuthResponse 登录/注册响应
type AuthResponse struct {
	Token    string          `json:"token"`
	Landlord *model.Landlord `json:"landlord"`
}

// ==================== 资料 ====================

// UpdateProfileRequest 修改资料 (手机号不可改)
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// ==================== 仪表盘 ====================

// DashboardStats 房东仪表盘
type DashboardStats struct {
	Total      int
	Active     int
	Pending    int
	TotalViews int
	Revenue    int // KES
	Recent     []model.Listing
}
