package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// HistoryTimeLayout is the on-disk timestamp format (ISO-8601, seconds, UTC).
const HistoryTimeLayout = "2006-01-02T15:04:05Z"

// HistoryEntry is one persisted observation, keyed by (Symbol, Timestamp).
type HistoryEntry struct {
	Symbol        string     `json:"symbol"`
	Timestamp     time.Time  `json:"timestamp"`
	Price         float64    `json:"price"`
	Change        float64    `json:"change"`
	ChangePercent null.Float `json:"changePercent"`
}

// NewHistoryEntry builds the entry persisted for a record observed at t.
// The timestamp is truncated to the second so that two polls of the same
// symbol within one second share a key.
func NewHistoryEntry(rec PriceRecord, t time.Time) HistoryEntry {
	return HistoryEntry{
		Symbol:        rec.Symbol,
		Timestamp:     t.UTC().Truncate(time.Second),
		Price:         rec.Price,
		Change:        rec.Change,
		ChangePercent: rec.ChangePercent,
	}
}

// Record rebuilds a minimal PriceRecord from a persisted entry. It is used to
// seed the latest-price cache before the first live poll.
func (e HistoryEntry) Record() PriceRecord {
	return PriceRecord{
		Symbol:        e.Symbol,
		Price:         e.Price,
		Change:        e.Change,
		ChangePercent: e.ChangePercent,
		RegularPrice:  e.Price,
		Session:       SessionRegular,
	}
}

// HistoryStats summarises a window of history entries.
type HistoryStats struct {
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Position float64 `json:"position"` // 0.0 ~ 1.0, latest price within [Low, High]
	Count    int     `json:"count"`
}
