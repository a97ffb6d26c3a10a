package model

import "time"

// RefreshRecord is one refresh attempt, successful or not.
type RefreshRecord struct {
	ID               string    `json:"id"`      // unique refresh ID (UUID)
	Trigger          string    `json:"trigger"` // manual or timer
	Result           string    `json:"result"`  // ok, rate_limited, upstream_error, calc_error
	MarkPrice        float64   `json:"mark_price,omitempty"`
	LiquidationPrice string    `json:"liquidation_price,omitempty"`
	Error            string    `json:"error,omitempty"`
	WaitSeconds      int       `json:"wait_seconds,omitempty"`
	APICallCount     int       `json:"api_call_count"`
	Position         Position  `json:"position"`
	LatencyMs        int64     `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"`
}
