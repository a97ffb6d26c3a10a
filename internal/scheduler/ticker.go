package scheduler

import (
	"sync"
	"time"
)

// CancelFunc stops a repeating task. Safe to call more than once.
type CancelFunc func()

// Ticker installs repeating tasks.
type Ticker interface {
	Every(interval time.Duration, fn func()) CancelFunc
}

// TimeTicker runs tasks on a time.Ticker in a background goroutine.
type TimeTicker struct{}

func (TimeTicker) Every(interval time.Duration, fn func()) CancelFunc {
	t := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}

// ManualTicker fires tasks only when Tick is called. Used to drive the scheduler in tests.
type ManualTicker struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]manualEntry
}

type manualEntry struct {
	interval time.Duration
	fn       func()
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{entries: make(map[int]manualEntry)}
}

func (m *ManualTicker) Every(interval time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.entries[id] = manualEntry{interval: interval, fn: fn}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
	}
}

// Tick runs every active task once.
func (m *ManualTicker) Tick() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.entries))
	for _, e := range m.entries {
		fns = append(fns, e.fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Active returns the intervals of the installed tasks.
func (m *ManualTicker) Active() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.interval)
	}
	return out
}
