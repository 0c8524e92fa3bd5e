package service

import (
	"errors"
	"fmt"

	"nhv_landlord_client/pkg/net"
)

// ==================== 提示文案 ====================

const (
	MsgRequiredFields     = "Please fill in all required fields"
	MsgPriceFloor         = "Price must be at least KES 1,000"
	MsgInvalidType        = "Please select a valid property type"
	MsgNoImages           = "Please upload at least 1 image"
	MsgTooManyImages      = "Maximum 5 images allowed"
	MsgBadImage           = "Images must be JPG, PNG or WebP under 5MB"
	MsgMpesaRequired      = "Please enter your M-Pesa phone number"
	MsgMpesaInvalid       = "Enter a valid Safaricom number (07XXXXXXXX)"
	MsgSubmitFailed       = "Failed to submit listing. Please try again."
	MsgDemoCreated        = "Demo mode: Listing created. Activate manually in dashboard."
	MsgCheckPhone         = "Check your phone for M-Pesa payment prompt!"
	MsgPaymentReceived    = "Payment received! Your listing is now live."
	MsgPaymentFailed      = "Payment failed. Please try again from your dashboard."
	MsgDemoActivated      = "Listing activated! (Demo mode)"
	MsgActivateFailed     = "Failed to activate listing"
	MsgLoginFirst         = "Please login first"
	MsgLoginRequired      = "Phone and password required"
	MsgLoginFailed        = "Invalid phone number or password"
	MsgRegisterRequired   = "All required fields must be filled"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgRegisterPhone      = "Enter a valid Kenyan phone number (07XXXXXXXX or 01XXXXXXXX)"
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgInvalidEmail       = "Enter a valid email address"
	MsgProfileRequired    = "Name and location are required"
	MsgReviewName         = "Please enter your name"
	MsgReviewRating       = "Rating must be between 1 and 5"
	MsgInquiryRequired    = "Please fill in all fields"
	MsgListingNotFound    = "Listing not found"
	MsgFavoriteAdded      = "Added to favorites!"
	MsgFavoriteRemoved    = "Removed from favorites"
	MsgInquirySent        = "Inquiry sent! The landlord will contact you soon."
	MsgInquiryFailed      = "Failed to send inquiry. Please try again."
	MsgReviewSubmitted    = "Review submitted!"
	MsgReviewFailed       = "Failed to submit review."
	MsgProfileUpdated     = "Profile updated successfully!"
	MsgProfileFailed      = "Failed to update profile"
	MsgListingDeleted     = "Listing deleted"
	MsgDeleteFailed       = "Failed to delete listing"
	MsgListingActivated   = "Listing activated!"
	MsgLoadListingsFailed = "Failed to load listings"
)

// ==================== 错误定义 ====================

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrInvalidSort     = errors.New("invalid sort option")
	ErrNoPreviousStage = errors.New("already at the first stage")
	ErrWizardFinished  = errors.New("listing already submitted")
	ErrSubmitRequired  = errors.New("payment stage advances by submit")
	ErrWrongStage      = errors.New("operation not allowed at this stage")
	ErrSubmitInFlight  = errors.New("submission already in progress")
	ErrWizardDiscarded = errors.New("wizard discarded")
	ErrNotDemo         = errors.New("listing is not in demo mode")
	ErrAttachmentIndex = errors.New("attachment index out of range")
	ErrSessionPersist  = errors.New("failed to persist session")
	ErrTokenUnreadable = errors.New("token has no readable expiry")
)

// ValidationError 本地校验失败，Message 直接展示给用户
// 一次只返回第一条不满足的规则
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// IsValidation 是否为本地校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SubmissionError 提交房源失败，Message 为服务端提示或兜底文案
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit listing: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Message 提取可直接展示的提示：本地校验、提交失败、服务端提示，否则为兜底文案
func Message(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.Message
	}
	return net.UserMessage(err, fallback)
}
