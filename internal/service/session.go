package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/market"
	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
	"github.com/GoPolymarket/liqwatch/internal/pkg/clock"
	"github.com/GoPolymarket/liqwatch/internal/pkg/logger"
	"github.com/GoPolymarket/liqwatch/internal/pkg/metrics"
	"github.com/GoPolymarket/liqwatch/internal/ratelimit"
	"github.com/GoPolymarket/liqwatch/internal/scheduler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TriggerManual = "manual"
	TriggerTimer  = "timer"
)

// Refresh outcomes, as recorded in history and metrics.
const (
	ResultOK            = "ok"
	ResultRateLimited   = "rate_limited"
	ResultUpstreamError = "upstream_error"
	ResultCalcError     = "calc_error"
)

// timeLayout is how last/next update times are displayed.
const timeLayout = "15:04:05"

type SessionOptions struct {
	Source            market.PriceSource
	Limiter           *ratelimit.Limiter
	Presenter         Presenter
	Clock             clock.Clock
	Ticker            scheduler.Ticker
	MinInterval       time.Duration
	MaintenanceMargin float64
	Position          model.Position
	History           *History
	// RefreshTimeout bounds timer-driven refreshes; manual refreshes use the caller's context.
	RefreshTimeout time.Duration
}

// Session owns one dashboard: its call budget, refresh cadence and position.
type Session struct {
	ID string

	source    market.PriceSource
	limiter   *ratelimit.Limiter
	presenter Presenter
	clock     clock.Clock
	sched     *scheduler.Scheduler
	history   *History
	margin    float64
	timeout   time.Duration

	mu       sync.RWMutex
	position model.Position
	disposed bool
}

func NewSession(opts SessionOptions) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.New(ratelimit.DefaultMaxCalls, ratelimit.DefaultWindow, opts.Clock)
	}
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	if opts.MaintenanceMargin == 0 {
		opts.MaintenanceMargin = DefaultMaintenanceMargin
	}
	if opts.History == nil {
		opts.History = NewHistory(DefaultHistorySize)
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 30 * time.Second
	}

	s := &Session{
		ID:        uuid.New().String(),
		source:    opts.Source,
		limiter:   opts.Limiter,
		presenter: opts.Presenter,
		clock:     opts.Clock,
		history:   opts.History,
		margin:    opts.MaintenanceMargin,
		timeout:   opts.RefreshTimeout,
		position:  opts.Position,
	}

	schedOpts := []scheduler.Option{scheduler.WithMinInterval(opts.MinInterval)}
	if opts.Ticker != nil {
		schedOpts = append(schedOpts, scheduler.WithTicker(opts.Ticker))
	}
	s.sched = scheduler.New(s.timerRefresh, schedOpts...)

	s.presenter.SetPosition(opts.Position)
	s.presenter.SetRefreshInterval(s.sched.MinInterval())
	s.updateStatus()
	return s
}

// Refresh runs one admission-checked fetch and recompute. Failures are surfaced
// through the presenter and returned; none of them stop the schedule.
func (s *Session) Refresh(ctx context.Context) error {
	return s.refresh(ctx, TriggerManual)
}

func (s *Session) timerRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.refresh(ctx, TriggerTimer)
}

func (s *Session) refresh(ctx context.Context, trigger string) error {
	start := s.clock.Now()
	record := &model.RefreshRecord{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		CreatedAt: start,
	}
	defer func() {
		record.LatencyMs = s.clock.Now().Sub(start).Milliseconds()
		metrics.RefreshesTotal.WithLabelValues(record.Result, trigger).Inc()
		s.history.Add(record)
	}()
	log := logger.With("session_id", s.ID, "refresh_id", record.ID, "trigger", trigger)

	if !s.limiter.CanMakeCall() {
		wait := s.limiter.TimeUntilNextCall()
		log.Warn("Rate limit reached", "wait_seconds", wait)
		s.presenter.SetNextUpdate(fmt.Sprintf("Rate limited - wait %ds", wait))
		record.Result = ResultRateLimited
		record.WaitSeconds = wait
		record.APICallCount = s.limiter.Count()
		return apperrors.NewRateLimited(wait)
	}

	pos := s.Position()
	record.Position = pos

	// counted before the fetch resolves; a failed fetch still spends budget
	s.limiter.RecordCall()
	count := s.limiter.Count()
	record.APICallCount = count
	metrics.LimiterCallsInWindow.Set(float64(count))
	s.presenter.SetCallCount(count)

	defer s.updateStatus()

	price, err := s.source.Price(ctx)
	if err != nil {
		log.Error("Price fetch failed", "error", err)
		s.presenter.SetMarkPrice(TextFetchError)
		s.presenter.SetLiquidationPrice(TextCalcError)
		record.Result = ResultUpstreamError
		record.Error = err.Error()
		return err
	}
	record.MarkPrice = price
	s.presenter.SetMarkPrice("$" + decimal.NewFromFloat(price).String())
	metrics.MarkPrice.Set(price)

	liq, err := LiquidationPrice(pos, s.margin)
	if err != nil {
		log.Warn("Liquidation price calculation failed", "error", err, "size", pos.Size)
		s.presenter.SetLiquidationPrice(TextCalcError)
		record.Result = ResultCalcError
		record.Error = err.Error()
		return err
	}
	record.Result = ResultOK
	record.LiquidationPrice = liq.StringFixed(2)
	s.presenter.SetLiquidationPrice("$" + liq.StringFixed(2))
	metrics.LiquidationPrice.Set(liq.InexactFloat64())

	log.Debug("Dashboard refreshed", "mark_price", price, "liquidation_price", record.LiquidationPrice, "api_calls", count)
	return nil
}

// StartAutoRefresh (re)installs the refresh timer and refreshes once right away.
// An interval under the minimum is rejected and raises a notice. A running
// schedule is kept and stays on display; otherwise the input snaps back to the minimum.
func (s *Session) StartAutoRefresh(interval time.Duration) error {
	if s.isDisposed() {
		return apperrors.New(apperrors.ErrInternal, "session disposed", nil)
	}

	if err := s.sched.Start(interval); err != nil {
		logger.Warn("Rejected refresh interval", "session_id", s.ID, "interval", interval.String())
		if running, current := s.sched.State(); running {
			s.presenter.SetRefreshInterval(current)
		} else {
			s.presenter.SetRefreshInterval(s.sched.MinInterval())
		}
		s.presenter.Notify(apperrors.Wrap(err).Message)
		return err
	}

	logger.Info("Auto refresh started", "session_id", s.ID, "interval", interval.String())
	s.presenter.SetRefreshInterval(interval)
	s.updateStatus()
	return nil
}

// StopAutoRefresh cancels the timer. Safe to call when already stopped.
func (s *Session) StopAutoRefresh() {
	s.sched.Stop()
	s.updateStatus()
}

// Dispose forces the session into the stopped state; it cannot be restarted.
func (s *Session) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()

	s.sched.Stop()
	s.updateStatus()
	logger.Info("Session disposed", "session_id", s.ID)
}

func (s *Session) SetPosition(pos model.Position) {
	s.mu.Lock()
	s.position = pos
	s.mu.Unlock()
	s.presenter.SetPosition(pos)
}

func (s *Session) Position() model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Schedule reports whether auto refresh is running and at what interval.
func (s *Session) Schedule() (bool, time.Duration) {
	return s.sched.State()
}

func (s *Session) History() *History {
	return s.history
}

func (s *Session) isDisposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disposed
}

func (s *Session) updateStatus() {
	now := s.clock.Now()
	s.presenter.SetLastUpdated(now)

	running, interval := s.sched.State()
	s.presenter.SetSchedule(running, interval)
	if running {
		s.presenter.SetNextUpdate(now.Add(interval).Format(timeLayout))
	} else {
		s.presenter.SetNextUpdate(TextStopped)
	}
}
