package model

// ListingFeeKES 每条房源的刊登费
const ListingFeeKES = 300

// PaymentStatus M-Pesa 支付状态，只由支付网关修改，客户端只读
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Terminal 终态：completed / failed / cancelled
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

// SubmissionResult 创建房源的返回，收到后不可变
type SubmissionResult struct {
	ListingID         int64  `json:"listing_id"`
	CheckoutRequestID string `json:"checkout_request_id"` // 支付轮询 key
	MpesaDemo         bool   `json:"mpesa_demo"`          // 演示模式：不轮询，手动激活
}

// PollOutcome 支付轮询的结束原因
type PollOutcome string

const (
	PollCompleted PollOutcome = "completed"
	PollFailed    PollOutcome = "failed"
	PollCancelled PollOutcome = "cancelled"
	PollTimedOut  PollOutcome = "timed_out" // 次数用尽，静默结束
	PollStopped   PollOutcome = "stopped"   // 调用方主动停止
)

// OutcomeOf 终态支付状态对应的轮询结果
func OutcomeOf(s PaymentStatus) (PollOutcome, bool) {
	if !s.Terminal() {
		return "", false
	}
	switch s {
	case PaymentCompleted:
		return PollCompleted, true
	case PaymentFailed:
		return PollFailed, true
	case PaymentCancelled:
		return PollCancelled, true
	}
	return "", false
}
