package model

import "time"

// Snapshot is everything the dashboard displays. Price fields are display text,
// so failures render as messages rather than numbers.
type Snapshot struct {
	SessionID        string    `json:"session_id"`
	MarkPrice        string    `json:"mark_price"`
	LiquidationPrice string    `json:"liquidation_price"`
	APICallCount     int       `json:"api_call_count"`
	LastUpdated      string    `json:"last_updated"`
	NextUpdate       string    `json:"next_update"`
	Running          bool      `json:"running"`
	IntervalSeconds  int       `json:"interval_seconds"`
	Position         Position  `json:"position"`
	Notice           string    `json:"notice,omitempty"`
	NoticeSeq        int       `json:"notice_seq"`
	UpdatedAt        time.Time `json:"updated_at"`
}
