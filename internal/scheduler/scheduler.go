// Package scheduler runs the dashboard refresh on a fixed cadence.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
)

// MinInterval keeps the cadence inside the price API's free-tier budget.
const MinInterval = 30 * time.Second

// Scheduler is either stopped or running one repeating task at a fixed interval.
type Scheduler struct {
	mu          sync.Mutex
	task        func()
	ticker      Ticker
	minInterval time.Duration

	cancel   CancelFunc // nil when stopped
	interval time.Duration
}

type Option func(*Scheduler)

func WithTicker(t Ticker) Option {
	return func(s *Scheduler) { s.ticker = t }
}

func WithMinInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.minInterval = d
		}
	}
}

func New(task func(), opts ...Option) *Scheduler {
	s := &Scheduler{
		task:        task,
		ticker:      TimeTicker{},
		minInterval: MinInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start replaces any running task with one firing every interval and runs the
// task once right away. Intervals below the minimum are rejected and leave the
// current state untouched.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval < s.minInterval {
		return apperrors.NewInvalidConfig(fmt.Sprintf(
			"Minimum refresh interval is %d seconds to respect API limits", int(s.minInterval/time.Second)))
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = s.ticker.Every(interval, s.task)
	s.interval = interval
	s.mu.Unlock()

	// out of band from the ticker
	s.task()
	return nil
}

// Stop cancels the running task. No-op when already stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.interval = 0
}

// State reports whether a task is installed and its interval.
func (s *Scheduler) State() (running bool, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil, s.interval
}

func (s *Scheduler) MinInterval() time.Duration {
	return s.minInterval
}
