// Package ratelimit implements the client-side call budget for the price API.
//
// Limiter keeps the timestamp of every call inside the window (a sliding log)
// instead of a token bucket. At tens of calls per minute the memory cost is
// irrelevant and the admission answer is exact.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/pkg/clock"
)

const (
	DefaultMaxCalls = 45
	DefaultWindow   = 60 * time.Second
)

type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time // chronological
	clock    clock.Clock
}

func New(maxCalls int, window time.Duration, c clock.Clock) *Limiter {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if c == nil {
		c = clock.Real()
	}
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		calls:    make([]time.Time, 0, maxCalls),
		clock:    c,
	}
}

// CanMakeCall drops calls that left the window and reports whether another call fits.
// It does not reserve the slot; callers follow up with RecordCall.
func (l *Limiter) CanMakeCall() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.clock.Now())
	return len(l.calls) < l.maxCalls
}

// RecordCall counts a call made now against the budget.
func (l *Limiter) RecordCall() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, l.clock.Now())
}

// TimeUntilNextCall returns the whole seconds (rounded up) until the oldest tracked
// call leaves the window, or 0 when under the limit. Never negative.
func (l *Limiter) TimeUntilNextCall() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.calls) < l.maxCalls {
		return 0
	}
	wait := l.calls[0].Add(l.window).Sub(l.clock.Now())
	if wait <= 0 {
		return 0
	}
	return int(math.Ceil(wait.Seconds()))
}

// Count is the number of calls currently tracked (as of the last prune).
func (l *Limiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func (l *Limiter) MaxCalls() int {
	return l.maxCalls
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

func (l *Limiter) prune(now time.Time) {
	idx := 0
	for idx < len(l.calls) && now.Sub(l.calls[idx]) >= l.window {
		idx++
	}
	if idx == 0 {
		return
	}
	l.calls = append(l.calls[:0], l.calls[idx:]...)
}
