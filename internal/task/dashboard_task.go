package task

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"nhv_landlord_client/internal/api/dto"
)

// DefaultDashboardSpec 仪表盘刷新周期
const DefaultDashboardSpec = "@every 30s"

// DashboardSource 仪表盘数据来源
type DashboardSource interface {
	Dashboard(ctx context.Context) (*dto.DashboardStats, error)
}

// DashboardRenderer 收到新数据 (或错误) 时调用
type DashboardRenderer func(stats *dto.DashboardStats, err error)

// ==================== DashboardRefreshTask 仪表盘定时刷新 ====================

// DashboardRefreshTask 按 cron 表达式刷新仪表盘，上一次未结束时跳过本次
type DashboardRefreshTask struct {
	source DashboardSource
	render DashboardRenderer
	spec   string
	Cron   *cron.Cron
	job    cron.Job
	logger *zap.Logger

	mu       sync.Mutex
	running  bool
	inflight sync.WaitGroup
}

// NewDashboardRefreshTask 创建刷新任务
func NewDashboardRefreshTask(source DashboardSource, spec string, render DashboardRenderer, logger *zap.Logger) *DashboardRefreshTask {
	if spec == "" {
		spec = DefaultDashboardSpec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &DashboardRefreshTask{
		source: source,
		render: render,
		spec:   spec,
		Cron:   cron.New(),
		logger: logger,
	}
	// 首次刷新与定时刷新共用同一个包装后的 job，互不重叠
	t.job = cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(t.refreshJob))
	return t
}

// Start 立即刷新一次，然后按周期刷新
func (t *DashboardRefreshTask) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrTaskRunning
	}

	if _, err := t.Cron.AddJob(t.spec, t.job); err != nil {
		return err
	}

	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		t.job.Run()
	}()
	t.Cron.Start()
	t.running = true
	t.logger.Info("[DashboardTask] 仪表盘自动刷新已启动", zap.String("spec", t.spec))
	return nil
}

// Stop 停止调度并等待正在执行的刷新结束
func (t *DashboardRefreshTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	<-t.Cron.Stop().Done()
	t.inflight.Wait()
	t.running = false
	t.logger.Info("[DashboardTask] 仪表盘自动刷新已停止")
}

// RefreshNow 手动刷新
func (t *DashboardRefreshTask) RefreshNow() {
	t.refreshJob()
}

func (t *DashboardRefreshTask) refreshJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := t.source.Dashboard(ctx)
	if err != nil {
		t.logger.Warn("[DashboardTask] 刷新仪表盘失败", zap.Error(err))
	}
	if t.render != nil {
		t.render(stats, err)
	}
}
