package model

// Position is the leveraged position the dashboard watches. It is read fresh on every refresh.
type Position struct {
	Size       float64 `json:"size"`        // contracts / coins
	EntryPrice float64 `json:"entry_price"` // quote currency per unit
	Collateral float64 `json:"collateral"`  // quote currency
}

// RefreshIntervalRequest is the body of POST /api/auto-refresh. A missing or
// null interval decodes to 0 and is rejected by the scheduler like any short one.
type RefreshIntervalRequest struct {
	IntervalSeconds int `json:"interval_seconds"`
}
