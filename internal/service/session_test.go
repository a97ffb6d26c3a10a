package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/config"
	"github.com/GoPolymarket/liqwatch/internal/market"
	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
	"github.com/GoPolymarket/liqwatch/internal/pkg/clock"
	"github.com/GoPolymarket/liqwatch/internal/ratelimit"
	"github.com/GoPolymarket/liqwatch/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingPresenter struct {
	mu          sync.Mutex
	markPrice   string
	liqPrice    string
	callCount   int
	lastUpdated time.Time
	nextUpdate  string
	running     bool
	interval    time.Duration
	configured  time.Duration
	position    model.Position
	notices     []string
}

func (p *recordingPresenter) SetMarkPrice(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markPrice = text
}

func (p *recordingPresenter) SetLiquidationPrice(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liqPrice = text
}

func (p *recordingPresenter) SetCallCount(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCount = n
}

func (p *recordingPresenter) SetLastUpdated(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastUpdated = t
}

func (p *recordingPresenter) SetNextUpdate(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextUpdate = text
}

func (p *recordingPresenter) SetSchedule(running bool, interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = running
	p.interval = interval
}

func (p *recordingPresenter) SetRefreshInterval(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configured = interval
}

func (p *recordingPresenter) SetPosition(pos model.Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

func (p *recordingPresenter) Notify(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, msg)
}

type fakeSource struct {
	mu    sync.Mutex
	price float64
	err   error
	calls int
}

func (f *fakeSource) Price(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.price, f.err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type harness struct {
	session   *Session
	presenter *recordingPresenter
	source    *fakeSource
	clock     *clock.Manual
	ticker    *scheduler.ManualTicker
	limiter   *ratelimit.Limiter
}

func newHarness(t *testing.T, maxCalls int) *harness {
	t.Helper()
	clk := clock.NewManual(epoch)
	h := &harness{
		presenter: &recordingPresenter{},
		source:    &fakeSource{price: 2500.5},
		clock:     clk,
		ticker:    scheduler.NewManualTicker(),
		limiter:   ratelimit.New(maxCalls, time.Minute, clk),
	}
	h.session = NewSession(SessionOptions{
		Source:    h.source,
		Limiter:   h.limiter,
		Presenter: h.presenter,
		Clock:     clk,
		Ticker:    h.ticker,
		Position:  model.Position{Size: 10, EntryPrice: 2000, Collateral: 1000},
	})
	t.Cleanup(h.session.Dispose)
	return h
}

func TestNewSessionInitialState(t *testing.T) {
	h := newHarness(t, 45)

	assert.NotEmpty(t, h.session.ID)
	assert.Equal(t, TextStopped, h.presenter.nextUpdate)
	assert.Equal(t, scheduler.MinInterval, h.presenter.configured)
	assert.Equal(t, 10.0, h.presenter.position.Size)
	assert.Equal(t, 0, h.source.Calls())
}

func TestRefreshSuccess(t *testing.T) {
	h := newHarness(t, 45)

	require.NoError(t, h.session.Refresh(context.Background()))

	assert.Equal(t, "$2500.5", h.presenter.markPrice)
	assert.Equal(t, "$2111.11", h.presenter.liqPrice)
	assert.Equal(t, 1, h.presenter.callCount)
	assert.Equal(t, epoch, h.presenter.lastUpdated)
	assert.Equal(t, TextStopped, h.presenter.nextUpdate)
}

func TestRefreshRateLimited(t *testing.T) {
	h := newHarness(t, 2)

	require.NoError(t, h.session.Refresh(context.Background()))
	h.clock.Advance(10 * time.Second)
	require.NoError(t, h.session.Refresh(context.Background()))

	err := h.session.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrRateLimited))
	assert.Equal(t, 50, apperrors.Wrap(err).RetryAfter)
	assert.Equal(t, "Rate limited - wait 50s", h.presenter.nextUpdate)
	assert.Equal(t, 2, h.source.Calls())
	assert.Equal(t, 2, h.limiter.Count())

	// the denied attempt did not touch the displayed values
	assert.Equal(t, "$2111.11", h.presenter.liqPrice)

	h.clock.Advance(50 * time.Second)
	require.NoError(t, h.session.Refresh(context.Background()))
	assert.Equal(t, 3, h.source.Calls())
}

func TestRefreshUpstreamFailureStillCountsCall(t *testing.T) {
	h := newHarness(t, 45)
	h.source.err = apperrors.NewUpstream("API error: 500", nil)

	err := h.session.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))

	assert.Equal(t, TextFetchError, h.presenter.markPrice)
	assert.Equal(t, TextCalcError, h.presenter.liqPrice)
	assert.Equal(t, 1, h.limiter.Count())
	assert.Equal(t, 1, h.presenter.callCount)
	assert.Equal(t, epoch, h.presenter.lastUpdated)
}

func TestRefreshAgainstHTTP500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	clk := clock.NewManual(epoch)
	presenter := &recordingPresenter{}
	limiter := ratelimit.New(45, time.Minute, clk)
	session := NewSession(SessionOptions{
		Source:    market.NewCoinGeckoClient(config.PriceConfig{BaseURL: srv.URL}, srv.Client()),
		Limiter:   limiter,
		Presenter: presenter,
		Clock:     clk,
		Ticker:    scheduler.NewManualTicker(),
		Position:  model.Position{Size: 10, EntryPrice: 2000, Collateral: 1000},
	})
	defer session.Dispose()

	require.Error(t, session.Refresh(context.Background()))
	assert.Equal(t, TextFetchError, presenter.markPrice)
	assert.Equal(t, TextCalcError, presenter.liqPrice)
	assert.Equal(t, 1, limiter.Count())
}

func TestRefreshZeroSize(t *testing.T) {
	h := newHarness(t, 45)
	h.session.SetPosition(model.Position{Size: 0, EntryPrice: 2000, Collateral: 1000})

	err := h.session.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCalculation))
	assert.Equal(t, "$2500.5", h.presenter.markPrice)
	assert.Equal(t, TextCalcError, h.presenter.liqPrice)
}

func TestRefreshReadsLatestPosition(t *testing.T) {
	h := newHarness(t, 45)
	h.session.SetPosition(model.Position{Size: 1, EntryPrice: 900, Collateral: 0})

	require.NoError(t, h.session.Refresh(context.Background()))
	assert.Equal(t, "$1000.00", h.presenter.liqPrice)
	assert.Equal(t, 900.0, h.presenter.position.EntryPrice)
}

func TestStartAutoRefresh(t *testing.T) {
	h := newHarness(t, 45)

	require.NoError(t, h.session.StartAutoRefresh(time.Minute))
	assert.Equal(t, 1, h.source.Calls(), "start refreshes immediately")
	assert.True(t, h.presenter.running)
	assert.Equal(t, time.Minute, h.presenter.configured)
	assert.Equal(t, "12:01:00", h.presenter.nextUpdate)

	h.clock.Advance(time.Minute)
	h.ticker.Tick()
	assert.Equal(t, 2, h.source.Calls())
	assert.Equal(t, "12:02:00", h.presenter.nextUpdate)
}

func TestStartAutoRefreshRejectsShortInterval(t *testing.T) {
	h := newHarness(t, 45)

	err := h.session.StartAutoRefresh(20 * time.Second)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidConfig))

	running, _ := h.session.Schedule()
	assert.False(t, running)
	assert.Equal(t, 30*time.Second, h.presenter.configured)
	require.Len(t, h.presenter.notices, 1)
	assert.Equal(t, "Minimum refresh interval is 30 seconds to respect API limits", h.presenter.notices[0])
	assert.Equal(t, 0, h.source.Calls())
}

func TestRejectedIntervalKeepsRunningSchedule(t *testing.T) {
	h := newHarness(t, 45)

	require.NoError(t, h.session.StartAutoRefresh(2*time.Minute))
	require.Error(t, h.session.StartAutoRefresh(5*time.Second))

	running, interval := h.session.Schedule()
	assert.True(t, running)
	assert.Equal(t, 2*time.Minute, interval)
	assert.Equal(t, 2*time.Minute, h.presenter.configured)
	require.Len(t, h.presenter.notices, 1)
}

func TestTimerKeepsRunningAfterFailures(t *testing.T) {
	h := newHarness(t, 45)
	h.source.err = errors.New("connection reset")

	require.NoError(t, h.session.StartAutoRefresh(30*time.Second))
	h.ticker.Tick()
	h.ticker.Tick()

	running, _ := h.session.Schedule()
	assert.True(t, running)
	assert.Equal(t, 3, h.source.Calls())
	assert.Equal(t, 3, h.limiter.Count())
}

func TestStopAutoRefresh(t *testing.T) {
	h := newHarness(t, 45)

	h.session.StopAutoRefresh()
	require.NoError(t, h.session.StartAutoRefresh(30*time.Second))
	h.session.StopAutoRefresh()
	h.session.StopAutoRefresh()

	assert.False(t, h.presenter.running)
	assert.Equal(t, TextStopped, h.presenter.nextUpdate)
	assert.Empty(t, h.ticker.Active())
}

func TestDisposeStopsAndBlocksRestart(t *testing.T) {
	h := newHarness(t, 45)
	require.NoError(t, h.session.StartAutoRefresh(30*time.Second))

	h.session.Dispose()
	running, _ := h.session.Schedule()
	assert.False(t, running)
	assert.Equal(t, TextStopped, h.presenter.nextUpdate)

	require.Error(t, h.session.StartAutoRefresh(30*time.Second))
}
