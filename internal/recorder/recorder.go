package recorder

import (
	"context"
	"errors"

	"TickerBoard/internal/model"
)

// ErrNotFound is returned when a symbol has no recorded history.
var ErrNotFound = errors.New("no history for symbol")

// Recorder persists price observations keyed by (symbol, timestamp).
type Recorder interface {
	// Append upserts an entry; a second entry with the same key overwrites the first.
	Append(ctx context.Context, entry model.HistoryEntry) error
	// QueryRecent returns up to limit of the newest entries in chronological
	// order. limit <= 0 returns every entry.
	QueryRecent(ctx context.Context, symbol string, limit int) ([]model.HistoryEntry, error)
	// QueryLatest returns the newest entry, or ErrNotFound.
	QueryLatest(ctx context.Context, symbol string) (model.HistoryEntry, error)
	// Symbols lists every symbol with at least one entry.
	Symbols(ctx context.Context) ([]string, error)
	Close() error
}
