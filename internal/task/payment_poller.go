package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
)

const (
	DefaultPollInterval    = 5 * time.Second
	DefaultPollMaxAttempts = 30
)

// PaymentStatusAPI 支付状态查询接口
type PaymentStatusAPI interface {
	PaymentStatus(ctx context.Context, checkoutRequestID string) (*dto.PaymentStatusResponse, error)
}

// ==================== PaymentPoller 支付确认轮询 ====================

// PaymentPoller 按固定间隔查询 M-Pesa 支付状态，直到终态或次数用尽
// 第一次查询在启动一个间隔之后，同一时刻最多一个查询在途
type PaymentPoller struct {
	api         PaymentStatusAPI
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger
}

// NewPaymentPoller 创建轮询器 (默认 5 秒 × 30 次)
func NewPaymentPoller(api PaymentStatusAPI, logger *zap.Logger) *PaymentPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentPoller{
		api:         api,
		interval:    DefaultPollInterval,
		maxAttempts: DefaultPollMaxAttempts,
		logger:      logger,
	}
}

// SetSchedule 设置间隔与最大次数，非正值保持默认
func (p *PaymentPoller) SetSchedule(interval time.Duration, maxAttempts int) {
	if interval > 0 {
		p.interval = interval
	}
	if maxAttempts > 0 {
		p.maxAttempts = maxAttempts
	}
}

// Poll 阻塞轮询，ctx 取消时返回 PollStopped
// 查询出错 (网络、5xx) 视为仍在处理中，不提前结束
// 间隔从上一次查询返回后重新计时，相邻两次查询至少相隔一个间隔
func (p *PaymentPoller) Poll(ctx context.Context, checkoutRequestID string) model.PollOutcome {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	log := p.logger.With(zap.String("checkout_request_id", checkoutRequestID))
	log.Debug("[PaymentPoller] 开始轮询",
		zap.Duration("interval", p.interval),
		zap.Int("max_attempts", p.maxAttempts),
	)

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if attempt > 1 {
			timer.Reset(p.interval)
		}
		select {
		case <-ctx.Done():
			log.Debug("[PaymentPoller] 轮询已停止", zap.Int("attempt", attempt))
			return model.PollStopped
		case <-timer.C:
		}

		resp, err := p.api.PaymentStatus(ctx, checkoutRequestID)
		if ctx.Err() != nil {
			return model.PollStopped
		}
		if err != nil {
			log.Warn("[PaymentPoller] 查询支付状态失败，继续等待",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		if outcome, ok := model.OutcomeOf(resp.Status); ok {
			log.Info("[PaymentPoller] 支付已结束",
				zap.Int("attempt", attempt),
				zap.String("outcome", string(outcome)),
			)
			return outcome
		}
	}

	log.Info("[PaymentPoller] 超过最大查询次数，停止轮询", zap.Int("max_attempts", p.maxAttempts))
	return model.PollTimedOut
}

// Start 后台轮询，自然结束时调用 onDone (被 Stop 时不调用)
func (p *PaymentPoller) Start(ctx context.Context, checkoutRequestID string, onDone func(model.PollOutcome)) *PollHandle {
	ctx, cancel := context.WithCancel(ctx)
	h := &PollHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()

		outcome := p.Poll(ctx, checkoutRequestID)
		h.outcome = outcome
		if outcome == model.PollStopped || ctx.Err() != nil || onDone == nil {
			return
		}
		onDone(outcome)
	}()
	return h
}

// Watch Start 的简化形式，返回停止函数
func (p *PaymentPoller) Watch(ctx context.Context, checkoutRequestID string, onDone func(model.PollOutcome)) func() {
	return p.Start(ctx, checkoutRequestID, onDone).Stop
}

// PollHandle 一次后台轮询
type PollHandle struct {
	cancel  context.CancelFunc
	done    chan struct{}
	outcome model.PollOutcome
}

// Stop 取消并等待协程退出，返回后不会再有查询或回调
// 可重复调用
func (h *PollHandle) Stop() {
	h.cancel()
	<-h.done
}

// Done 协程退出时关闭
func (h *PollHandle) Done() <-chan struct{} { return h.done }

// Wait 等待结束并返回结果
func (h *PollHandle) Wait() model.PollOutcome {
	<-h.done
	return h.outcome
}
