package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/pkg/utils"
)

// ==================== 校验器 ====================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("property_type", func(fl validator.FieldLevel) bool {
		return model.PropertyType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("mpesa_phone", func(fl validator.FieldLevel) bool {
		return utils.IsMpesaPhone(fl.Field().String())
	})
	return v
}

// rule 一条有序规则，Field 为空表示匹配任意字段
type rule struct {
	Field   string
	Tag     string
	Message string
}

// check 按规则顺序返回第一条失败的提示
func check(s interface{}, rules []rule) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, r := range rules {
		for _, fe := range fieldErrs {
			if fe.Tag() == r.Tag && (r.Field == "" || fe.StructField() == r.Field) {
				return invalid(r.Message)
			}
		}
	}
	return invalid(fieldErrs[0].Error())
}

var detailsRules = []rule{
	{Tag: "required", Message: MsgRequiredFields},
	{Field: "Price", Tag: "min", Message: MsgPriceFloor},
	{Field: "PropertyType", Tag: "property_type", Message: MsgInvalidType},
}

// ValidateDetails 房源详情：必填 -> 最低价 -> 类型
func ValidateDetails(d *model.DraftListing) error {
	return check(d, detailsRules)
}

// ValidatePhotos 图片数量下限 (上限在添加时拦截)
func ValidatePhotos(count int) error {
	if count < model.MinAttachments {
		return invalid(MsgNoImages)
	}
	if count > model.MaxAttachments {
		return invalid(MsgTooManyImages)
	}
	return nil
}

// ValidateAttachment 单张图片：内容必须是图片且不超过 5MB，返回嗅探出的类型
func ValidateAttachment(a model.Attachment) (string, error) {
	if a.Size() == 0 || a.Size() > model.MaxAttachmentBytes {
		return "", invalid(MsgBadImage)
	}
	contentType, err := utils.DetectImage(a.Data)
	if err != nil {
		return "", invalid(MsgBadImage)
	}
	return contentType, nil
}

// ValidatePaymentPhone M-Pesa 支付手机号
func ValidatePaymentPhone(phone string) error {
	if utils.StripSpaces(phone) == "" {
		return invalid(MsgMpesaRequired)
	}
	if !utils.IsMpesaPhone(phone) {
		return invalid(MsgMpesaInvalid)
	}
	return nil
}

var registrationRules = []rule{
	{Tag: "required", Message: MsgRegisterRequired},
	{Field: "Confirm", Tag: "eqfield", Message: MsgPasswordMismatch},
	{Field: "Password", Tag: "min", Message: MsgPasswordTooShort},
	{Field: "Phone", Tag: "mpesa_phone", Message: MsgRegisterPhone},
	{Field: "Email", Tag: "email", Message: MsgInvalidEmail},
}

// ValidateRegistration 注册前本地校验，失败时不发任何请求
func ValidateRegistration(f *dto.RegistrationForm) error {
	return check(f, registrationRules)
}

// ValidateLogin 登录前检查
func ValidateLogin(req *dto.LoginRequest) error {
	return check(req, []rule{{Tag: "required", Message: MsgLoginRequired}})
}

// ValidateProfile 资料修改
func ValidateProfile(req *dto.UpdateProfileRequest) error {
	return check(req, []rule{
		{Tag: "required", Message: MsgProfileRequired},
		{Field: "Email", Tag: "email", Message: MsgInvalidEmail},
	})
}

// ValidateReview 评价
func ValidateReview(req *dto.ReviewRequest) error {
	return check(req, []rule{
		{Field: "ReviewerName", Tag: "required", Message: MsgReviewName},
		{Field: "Rating", Tag: "min", Message: MsgReviewRating},
		{Field: "Rating", Tag: "max", Message: MsgReviewRating},
	})
}

// ValidateInquiry 咨询
func ValidateInquiry(req *dto.InquiryRequest) error {
	return check(req, []rule{{Tag: "required", Message: MsgInquiryRequired}})
}
