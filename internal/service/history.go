package service

import (
	"sync"

	"github.com/GoPolymarket/liqwatch/internal/model"
)

const DefaultHistorySize = 200

// History keeps the most recent refresh records in a fixed-size ring. It is
// process memory only and starts empty on every run.
type History struct {
	mu        sync.Mutex
	maxSize   int
	records   []*model.RefreshRecord
	nextIndex int
}

func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{
		maxSize: maxSize,
		records: make([]*model.RefreshRecord, 0, maxSize),
	}
}

func (h *History) Add(entry *model.RefreshRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.records) < h.maxSize {
		h.records = append(h.records, entry)
		return
	}
	h.records[h.nextIndex] = entry
	h.nextIndex = (h.nextIndex + 1) % h.maxSize
}

// List returns up to limit records, newest first, optionally filtered by result.
func (h *History) List(result string, limit int) []*model.RefreshRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit <= 0 || limit > h.maxSize {
		limit = h.maxSize
	}
	results := make([]*model.RefreshRecord, 0, limit)
	total := len(h.records)
	for i := 0; i < total; i++ {
		idx := (h.nextIndex + total - 1 - i) % total
		entry := h.records[idx]
		if entry == nil {
			continue
		}
		if result != "" && entry.Result != result {
			continue
		}
		results = append(results, entry)
		if len(results) >= limit {
			break
		}
	}
	return results
}
