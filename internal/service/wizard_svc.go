package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/pkg/net"
	"nhv_landlord_client/pkg/utils"
)

// ==================== 阶段 ====================

// Stage 发布向导阶段
type Stage int

const (
	StageDetails Stage = iota + 1
	StagePhotos
	StagePayment
	StageConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageDetails:
		return "Details"
	case StagePhotos:
		return "Photos"
	case StagePayment:
		return "Payment"
	case StageConfirmation:
		return "Confirmation"
	}
	return "Unknown"
}

// Step 从 1 开始的步骤序号
func (s Stage) Step() int { return int(s) }

// ConfirmationState 确认页子状态
type ConfirmationState string

const (
	ConfirmWaiting       ConfirmationState = "waiting"   // 等待 M-Pesa 回调
	ConfirmDemo          ConfirmationState = "demo"      // 演示模式，等待手动激活
	ConfirmPaid          ConfirmationState = "paid"      // 支付成功，已上架
	ConfirmPaymentFailed ConfirmationState = "failed"    // 支付失败或取消
	ConfirmUnconfirmed   ConfirmationState = "timed_out" // 轮询次数用尽，结果未知
	ConfirmActivated     ConfirmationState = "activated" // 演示模式已激活
)

// ==================== 依赖 ====================

// SubmissionAPI 创建与激活房源
type SubmissionAPI interface {
	CreateListing(ctx context.Context, form *dto.CreateListingForm) (*model.SubmissionResult, error)
	ActivateListing(ctx context.Context, id int64) error
}

// PaymentWatcher 后台确认支付结果
// onDone 只在轮询自然结束时调用；返回的 stop 取消轮询并等待其退出
type PaymentWatcher interface {
	Watch(ctx context.Context, checkoutRequestID string, onDone func(model.PollOutcome)) (stop func())
}

// WizardDeps 向导依赖
type WizardDeps struct {
	API      SubmissionAPI
	Watcher  PaymentWatcher
	Notifier Notifier
	Logger   *zap.Logger
}

// ==================== ListingWizard 发布向导 ====================

// ListingWizard 发布房源的四步状态机：详情 -> 图片 -> 支付 -> 确认
// 每次发布创建一个实例，离开页面时必须调用 Discard
type ListingWizard struct {
	api      SubmissionAPI
	watcher  PaymentWatcher
	notifier Notifier
	logger   *zap.Logger

	mu           sync.Mutex
	stage        Stage
	draft        *model.DraftListing
	attachments  []model.Attachment
	message      string
	submitting   bool
	result       *model.SubmissionResult
	confirmation ConfirmationState
	stopWatch    func()
	paymentDone  chan struct{}
	discarded    bool
}

// NewListingWizard 创建向导，联系电话与支付手机号默认取房东手机号
func NewListingWizard(deps WizardDeps, actor *model.Landlord) *ListingWizard {
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	draft := model.NewDraftListing()
	if actor != nil {
		draft.ContactPhone = actor.Phone
		draft.MpesaPhone = actor.Phone
	}

	return &ListingWizard{
		api:         deps.API,
		watcher:     deps.Watcher,
		notifier:    deps.Notifier,
		logger:      deps.Logger,
		stage:       StageDetails,
		draft:       draft,
		paymentDone: make(chan struct{}),
	}
}

// ==================== 状态读取 ====================

// Stage 当前阶段
func (w *ListingWizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Draft 草稿副本
func (w *ListingWizard) Draft() *model.DraftListing {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// Attachments 已选图片副本，[0] 为封面
func (w *ListingWizard) Attachments() []model.Attachment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]model.Attachment(nil), w.attachments...)
}

// Message 当前内联提示，没有时为空串
func (w *ListingWizard) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Result 提交结果，提交成功前为 nil
func (w *ListingWizard) Result() *model.SubmissionResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return nil
	}
	r := *w.result
	return &r
}

// Confirmation 确认页子状态，未到确认页时为空
func (w *ListingWizard) Confirmation() ConfirmationState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

// PaymentDone 支付轮询结束 (成功、失败、超时或向导被丢弃) 时关闭
func (w *ListingWizard) PaymentDone() <-chan struct{} {
	return w.paymentDone
}

// ==================== 编辑 ====================

// UpdateDraft 修改草稿 (仅详情与支付阶段)
func (w *ListingWizard) UpdateDraft(fn func(d *model.DraftListing)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageConfirmation {
		return ErrWizardFinished
	}
	fn(w.draft)
	if w.draft.Amenities == nil {
		w.draft.Amenities = model.AmenitySet{}
	}
	return nil
}

// ToggleAmenity 切换设施，返回切换后是否选中
func (w *ListingWizard) ToggleAmenity(tag string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageConfirmation {
		return false, ErrWizardFinished
	}
	return w.draft.Amenities.Toggle(tag), nil
}

// SetPaymentPhone 设置 M-Pesa 手机号
func (w *ListingWizard) SetPaymentPhone(phone string) error {
	return w.UpdateDraft(func(d *model.DraftListing) { d.MpesaPhone = phone })
}

// AddAttachments 追加图片
// 超过上限时整批拒绝并提示，已有图片不变；任何一张不是合法图片也整批拒绝
func (w *ListingWizard) AddAttachments(files ...model.Attachment) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageConfirmation {
		return ErrWizardFinished
	}

	if len(w.attachments)+len(files) > model.MaxAttachments {
		w.notifier.Error(MsgTooManyImages)
		return invalid(MsgTooManyImages)
	}

	accepted := make([]model.Attachment, 0, len(files))
	for _, f := range files {
		contentType, err := ValidateAttachment(f)
		if err != nil {
			w.message = MsgBadImage
			return err
		}
		f.ContentType = contentType
		accepted = append(accepted, f)
	}
	w.attachments = append(w.attachments, accepted...)
	return nil
}

// RemoveAttachment 按下标移除，后面的图片顺序前移
func (w *ListingWizard) RemoveAttachment(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageConfirmation {
		return ErrWizardFinished
	}
	if index < 0 || index >= len(w.attachments) {
		return ErrAttachmentIndex
	}
	w.attachments = append(w.attachments[:index], w.attachments[index+1:]...)
	return nil
}

// ==================== 导航 ====================

// Next 校验当前阶段并前进，校验失败时停留并设置提示
func (w *ListingWizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	switch w.stage {
	case StageDetails:
		err = ValidateDetails(w.draft)
	case StagePhotos:
		err = ValidatePhotos(len(w.attachments))
	case StagePayment:
		return ErrSubmitRequired
	default:
		return ErrWizardFinished
	}
	if err != nil {
		w.message = Message(err, MsgRequiredFields)
		return err
	}

	w.message = ""
	w.stage++
	return nil
}

// Back 无条件回到上一阶段
func (w *ListingWizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.stage {
	case StageDetails:
		return ErrNoPreviousStage
	case StageConfirmation:
		return ErrWizardFinished
	}
	w.message = ""
	w.stage--
	return nil
}

// ==================== 提交 ====================

// Submit 校验支付手机号并一次性提交房源
// 失败停留在支付阶段；成功进入确认阶段 (演示模式等待手动激活，否则开始轮询支付)
func (w *ListingWizard) Submit(ctx context.Context) (*model.SubmissionResult, error) {
	w.mu.Lock()
	if w.discarded {
		w.mu.Unlock()
		return nil, ErrWizardDiscarded
	}
	if w.stage != StagePayment {
		w.mu.Unlock()
		return nil, ErrWrongStage
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if err := ValidatePaymentPhone(w.draft.MpesaPhone); err != nil {
		w.message = Message(err, MsgMpesaInvalid)
		w.mu.Unlock()
		return nil, err
	}

	draft := w.draft.Clone()
	draft.MpesaPhone = utils.StripSpaces(draft.MpesaPhone)
	form := dto.NewCreateListingForm(draft, w.attachments)
	w.submitting = true
	w.message = ""
	w.mu.Unlock()

	result, err := w.api.CreateListing(ctx, form)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if w.discarded {
		w.logger.Info("[ListingWizard] 向导已关闭，丢弃提交结果", zap.Bool("failed", err != nil))
		return nil, ErrWizardDiscarded
	}

	if err != nil {
		msg := net.UserMessage(err, MsgSubmitFailed)
		w.message = msg
		w.logger.Warn("[ListingWizard] 提交房源失败", zap.Error(err))
		return nil, &SubmissionError{Message: msg, Err: err}
	}

	w.result = result
	w.stage = StageConfirmation
	w.logger.Info("[ListingWizard] 房源已提交",
		zap.Int64("listing_id", result.ListingID),
		zap.Bool("mpesa_demo", result.MpesaDemo),
	)

	if result.MpesaDemo {
		w.confirmation = ConfirmDemo
		w.notifier.Info(MsgDemoCreated)
		w.closePaymentDone()
	} else {
		w.confirmation = ConfirmWaiting
		w.notifier.Success(MsgCheckPhone)
		w.startWatch(result.CheckoutRequestID)
	}

	r := *result
	return &r, nil
}

// startWatch 需持有锁
func (w *ListingWizard) startWatch(checkoutRequestID string) {
	if w.watcher == nil {
		w.closePaymentDone()
		return
	}
	w.stopWatch = w.watcher.Watch(context.Background(), checkoutRequestID, w.onPaymentOutcome)
}

func (w *ListingWizard) onPaymentOutcome(outcome model.PollOutcome) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.discarded {
		return
	}

	switch outcome {
	case model.PollCompleted:
		w.confirmation = ConfirmPaid
		w.notifier.Success(MsgPaymentReceived)
	case model.PollFailed, model.PollCancelled:
		w.confirmation = ConfirmPaymentFailed
		w.notifier.Error(MsgPaymentFailed)
	case model.PollTimedOut:
		w.confirmation = ConfirmUnconfirmed
	default:
		return
	}
	w.closePaymentDone()
}

func (w *ListingWizard) closePaymentDone() {
	select {
	case <-w.paymentDone:
	default:
		close(w.paymentDone)
	}
}

// Activate 演示模式下手动激活
func (w *ListingWizard) Activate(ctx context.Context) error {
	w.mu.Lock()
	if w.discarded {
		w.mu.Unlock()
		return ErrWizardDiscarded
	}
	if w.stage != StageConfirmation || w.confirmation != ConfirmDemo {
		w.mu.Unlock()
		return ErrNotDemo
	}
	id := w.result.ListingID
	w.mu.Unlock()

	if err := w.api.ActivateListing(ctx, id); err != nil {
		w.notifier.Error(MsgActivateFailed)
		w.logger.Warn("[ListingWizard] 手动激活失败", zap.Int64("listing_id", id), zap.Error(err))
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.discarded {
		return ErrWizardDiscarded
	}
	w.confirmation = ConfirmActivated
	w.notifier.Success(MsgDemoActivated)
	return nil
}

// Discard 关闭向导：停止支付轮询，之后到达的提交结果一律丢弃
// 返回时后台不再有任何查询或状态修改
func (w *ListingWizard) Discard() {
	w.mu.Lock()
	if w.discarded {
		w.mu.Unlock()
		return
	}
	w.discarded = true
	stop := w.stopWatch
	w.stopWatch = nil
	w.closePaymentDone()
	w.mu.Unlock()

	// stop 会等待轮询协程退出，协程回调需要锁，必须在锁外调用
	if stop != nil {
		stop()
	}
}
