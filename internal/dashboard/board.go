// Package dashboard holds the rendered dashboard state and fans it out to
// connected viewers.
package dashboard

import (
	"sync"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/GoPolymarket/liqwatch/internal/pkg/logger"
)

const (
	timeLayout       = "15:04:05"
	subscriberBuffer = 16
)

// Board is the in-memory display surface. It implements service.Presenter.
type Board struct {
	mu    sync.RWMutex
	state model.Snapshot
	subs  map[int]chan model.Snapshot
	next  int
	now   func() time.Time
}

func NewBoard() *Board {
	return &Board{
		state: model.Snapshot{
			MarkPrice:        "-",
			LiquidationPrice: "-",
			LastUpdated:      "-",
			NextUpdate:       "-",
		},
		subs: make(map[int]chan model.Snapshot),
		now:  time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() model.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Subscribe registers a viewer. The channel receives the current state first and
// then every change; slow viewers miss intermediate states rather than block writers.
func (b *Board) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	ch <- b.state
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of connected viewers.
func (b *Board) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Board) update(fn func(s *model.Snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fn(&b.state)
	b.state.UpdatedAt = b.now()
	for id, ch := range b.subs {
		select {
		case ch <- b.state:
		default:
			logger.Debug("Dropping snapshot for slow viewer", "subscriber", id)
		}
	}
}

func (b *Board) SetSessionID(id string) {
	b.update(func(s *model.Snapshot) { s.SessionID = id })
}

func (b *Board) SetMarkPrice(text string) {
	b.update(func(s *model.Snapshot) { s.MarkPrice = text })
}

func (b *Board) SetLiquidationPrice(text string) {
	b.update(func(s *model.Snapshot) { s.LiquidationPrice = text })
}

func (b *Board) SetCallCount(n int) {
	b.update(func(s *model.Snapshot) { s.APICallCount = n })
}

func (b *Board) SetLastUpdated(t time.Time) {
	b.update(func(s *model.Snapshot) { s.LastUpdated = t.Format(timeLayout) })
}

func (b *Board) SetNextUpdate(text string) {
	b.update(func(s *model.Snapshot) { s.NextUpdate = text })
}

func (b *Board) SetSchedule(running bool, interval time.Duration) {
	b.update(func(s *model.Snapshot) {
		s.Running = running
		if running {
			s.IntervalSeconds = int(interval / time.Second)
		}
	})
}

func (b *Board) SetRefreshInterval(interval time.Duration) {
	b.update(func(s *model.Snapshot) { s.IntervalSeconds = int(interval / time.Second) })
}

func (b *Board) SetPosition(pos model.Position) {
	b.update(func(s *model.Snapshot) { s.Position = pos })
}

func (b *Board) Notify(msg string) {
	b.update(func(s *model.Snapshot) {
		s.Notice = msg
		s.NoticeSeq++
	})
}
