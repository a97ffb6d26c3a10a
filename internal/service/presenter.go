package service

import (
	"time"

	"github.com/GoPolymarket/liqwatch/internal/model"
)

// Display text written when a refresh cannot produce numbers.
const (
	TextFetchError = "Error fetching price"
	TextCalcError  = "Calculation failed"
	TextStopped    = "Stopped"
)

// Presenter is the display surface a Session writes into. The session never
// renders anything itself.
type Presenter interface {
	SetMarkPrice(text string)
	SetLiquidationPrice(text string)
	SetCallCount(n int)
	SetLastUpdated(t time.Time)
	SetNextUpdate(text string)
	SetSchedule(running bool, interval time.Duration)
	SetRefreshInterval(interval time.Duration)
	SetPosition(pos model.Position)
	// Notify raises a notice the user has to acknowledge.
	Notify(msg string)
}

// NopPresenter discards all updates.
type NopPresenter struct{}

func (NopPresenter) SetMarkPrice(string) {}
func (NopPresenter) SetLiquidationPrice(string) {}
func (NopPresenter) SetCallCount(int) {}
func (NopPresenter) SetLastUpdated(time.Time) {}
func (NopPresenter) SetNextUpdate(string) {}
func (NopPresenter) SetSchedule(bool, time.Duration) {}
func (NopPresenter) SetRefreshInterval(time.Duration) {}
func (NopPresenter) SetPosition(model.Position) {}
func (NopPresenter) Notify(string) {}
