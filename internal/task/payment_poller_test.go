package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhv_landlord_client/internal/api"
	"nhv_landlord_client/internal/api/apitest"
	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/pkg/net"
)

// ==================== 测试辅助 ====================

const testInterval = 5 * time.Millisecond

// scriptedStatusAPI 按脚本返回支付状态，记录查询时间
type scriptedStatusAPI struct {
	mu       sync.Mutex
	script   []model.PaymentStatus
	errAt    map[int]bool
	calls    int
	inFlight int
	overlap  bool
	delay    time.Duration
	started  []time.Time
}

func (s *scriptedStatusAPI) PaymentStatus(ctx context.Context, _ string) (*dto.PaymentStatusResponse, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.started = append(s.started, time.Now())
	s.inFlight++
	if s.inFlight > 1 {
		s.overlap = true
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.errAt[n] {
		return nil, errors.New("gateway unavailable")
	}
	status := model.PaymentPending
	if len(s.script) > 0 {
		idx := n - 1
		if idx >= len(s.script) {
			idx = len(s.script) - 1
		}
		status = s.script[idx]
	}
	return &dto.PaymentStatusResponse{Status: status}, nil
}

func (s *scriptedStatusAPI) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *scriptedStatusAPI) Started() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.started...)
}

func newTestPoller(api PaymentStatusAPI, maxAttempts int) *PaymentPoller {
	p := NewPaymentPoller(api, nil)
	p.SetSchedule(testInterval, maxAttempts)
	return p
}

// ==================== Poll ====================

func TestPaymentPoller_CompletedOnThirdQuery(t *testing.T) {
	fake := apitest.NewFakeAPI(t)
	fake.PaymentScript = []model.PaymentStatus{model.PaymentPending, model.PaymentPending, model.PaymentCompleted}
	client := api.NewClient(net.NewClient(net.Config{BaseURL: fake.BaseURL()}, nil, nil))

	outcome := newTestPoller(client, DefaultPollMaxAttempts).Poll(context.Background(), "ws_CO_1")

	assert.Equal(t, model.PollCompleted, outcome)
	assert.Equal(t, 3, fake.PaymentQueries())
}

func TestPaymentPoller_NeverResolvesStopsAfterMaxAttempts(t *testing.T) {
	fake := apitest.NewFakeAPI(t)
	client := api.NewClient(net.NewClient(net.Config{BaseURL: fake.BaseURL()}, nil, nil))

	outcome := newTestPoller(client, 30).Poll(context.Background(), "ws_CO_1")

	assert.Equal(t, model.PollTimedOut, outcome)
	assert.Equal(t, 30, fake.PaymentQueries())
}

func TestPaymentPoller_QueriesSpacedByInterval(t *testing.T) {
	stub := &scriptedStatusAPI{delay: 2 * time.Millisecond}
	start := time.Now()

	outcome := newTestPoller(stub, DefaultPollMaxAttempts).Poll(context.Background(), "ws_CO_1")

	assert.Equal(t, model.PollTimedOut, outcome)
	started := stub.Started()
	require.Len(t, started, DefaultPollMaxAttempts)
	assert.GreaterOrEqual(t, started[0].Sub(start), testInterval)
	for i := 1; i < len(started); i++ {
		assert.GreaterOrEqual(t, started[i].Sub(started[i-1]), testInterval, "query %d", i+1)
	}
}

func TestPaymentPoller_FailedAndCancelled(t *testing.T) {
	tests := []struct {
		name   string
		status model.PaymentStatus
		want   model.PollOutcome
	}{
		{"failed", model.PaymentFailed, model.PollFailed},
		{"cancelled", model.PaymentCancelled, model.PollCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &scriptedStatusAPI{script: []model.PaymentStatus{tt.status}}
			outcome := newTestPoller(stub, 30).Poll(context.Background(), "ws_CO_1")
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, 1, stub.Calls())
		})
	}
}

func TestPaymentPoller_QueryErrorsKeepPolling(t *testing.T) {
	stub := &scriptedStatusAPI{
		script: []model.PaymentStatus{model.PaymentPending, model.PaymentPending, model.PaymentPending, model.PaymentCompleted},
		errAt:  map[int]bool{1: true, 2: true},
	}

	outcome := newTestPoller(stub, 30).Poll(context.Background(), "ws_CO_1")

	assert.Equal(t, model.PollCompleted, outcome)
	assert.Equal(t, 4, stub.Calls())
}

func TestPaymentPoller_ServerErrorsKeepPolling(t *testing.T) {
	fake := apitest.NewFakeAPI(t)
	fake.PaymentScript = []model.PaymentStatus{model.PaymentPending, model.PaymentCompleted}
	fake.PaymentFailures[1] = true
	client := api.NewClient(net.NewClient(net.Config{BaseURL: fake.BaseURL()}, nil, nil))

	outcome := newTestPoller(client, 30).Poll(context.Background(), "ws_CO_1")

	assert.Equal(t, model.PollCompleted, outcome)
	assert.Equal(t, 2, fake.PaymentQueries())
}

func TestPaymentPoller_FirstQueryAfterOneInterval(t *testing.T) {
	stub := &scriptedStatusAPI{script: []model.PaymentStatus{model.PaymentCompleted}}
	p := NewPaymentPoller(stub, nil)
	p.SetSchedule(100*time.Millisecond, 30)

	h := p.Start(context.Background(), "ws_CO_1", nil)
	defer h.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, stub.Calls())
	assert.Equal(t, model.PollCompleted, h.Wait())
}

func TestPaymentPoller_OneQueryInFlight(t *testing.T) {
	stub := &scriptedStatusAPI{delay: 4 * testInterval}

	outcome := newTestPoller(stub, 5).Poll(context.Background(), "ws_CO_1")

	assert.Equal(t, model.PollTimedOut, outcome)
	assert.Equal(t, 5, stub.Calls())
	assert.False(t, stub.overlap)
}

// ==================== Start / Stop ====================

func TestPaymentPoller_StartInvokesCallback(t *testing.T) {
	stub := &scriptedStatusAPI{script: []model.PaymentStatus{model.PaymentPending, model.PaymentCompleted}}
	got := make(chan model.PollOutcome, 1)

	h := newTestPoller(stub, 30).Start(context.Background(), "ws_CO_1", func(o model.PollOutcome) {
		got <- o
	})

	select {
	case o := <-got:
		assert.Equal(t, model.PollCompleted, o)
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
	h.Stop()
}

func TestPaymentPoller_StopHaltsQueries(t *testing.T) {
	stub := &scriptedStatusAPI{}
	called := false

	h := newTestPoller(stub, 1000).Start(context.Background(), "ws_CO_1", func(model.PollOutcome) {
		called = true
	})
	time.Sleep(8 * testInterval)
	h.Stop()

	after := stub.Calls()
	time.Sleep(8 * testInterval)

	assert.Equal(t, after, stub.Calls(), "no query after Stop returns")
	assert.False(t, called, "no callback after Stop")
	assert.Equal(t, model.PollStopped, h.Wait())
	require.NotPanics(t, h.Stop)
}

func TestPaymentPoller_WatchReturnsStop(t *testing.T) {
	stub := &scriptedStatusAPI{}
	stop := newTestPoller(stub, 1000).Watch(context.Background(), "ws_CO_1", nil)
	time.Sleep(4 * testInterval)
	stop()

	after := stub.Calls()
	time.Sleep(4 * testInterval)
	assert.Equal(t, after, stub.Calls())
}
