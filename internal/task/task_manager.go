package task

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一创建与停止客户端后台任务
// 管理范围：支付确认轮询、仪表盘定时刷新
type TaskManager struct {
	poller    *PaymentPoller
	dashboard DashboardSource
	cfg       *TaskManagerConfig
	logger    *zap.Logger

	mu            sync.Mutex
	dashboardTask *DashboardRefreshTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	PaymentAPI PaymentStatusAPI
	Dashboard  DashboardSource
	Logger     *zap.Logger
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// 支付轮询
	PollInterval    time.Duration
	PollMaxAttempts int

	// 仪表盘刷新
	DashboardEnabled bool
	DashboardSpec    string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		PollInterval:     DefaultPollInterval,
		PollMaxAttempts:  DefaultPollMaxAttempts,
		DashboardEnabled: true,
		DashboardSpec:    DefaultDashboardSpec,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tm := &TaskManager{cfg: cfg, logger: logger}

	if deps.PaymentAPI != nil {
		tm.poller = NewPaymentPoller(deps.PaymentAPI, logger)
		tm.poller.SetSchedule(cfg.PollInterval, cfg.PollMaxAttempts)
	}
	if cfg.DashboardEnabled {
		tm.dashboard = deps.Dashboard
	}
	return tm
}

// PaymentPoller 支付轮询器，未配置时为 nil
func (tm *TaskManager) PaymentPoller() *PaymentPoller {
	return tm.poller
}

// WatchDashboard 启动仪表盘定时刷新
func (tm *TaskManager) WatchDashboard(render DashboardRenderer) error {
	if tm.dashboard == nil {
		return ErrTaskDisabled
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.dashboardTask != nil {
		return ErrTaskRunning
	}

	t := NewDashboardRefreshTask(tm.dashboard, tm.cfg.DashboardSpec, render, tm.logger)
	if err := t.Start(); err != nil {
		return err
	}
	tm.dashboardTask = t
	return nil
}

// Stop 停止所有定时任务
func (tm *TaskManager) Stop() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.dashboardTask != nil {
		tm.dashboardTask.Stop()
		tm.dashboardTask = nil
	}
}

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return map[string]bool{
		"payment_poller": tm.poller != nil,
		"dashboard":      tm.dashboardTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
	ErrTaskRunning  TaskError = "task is already running"
)
