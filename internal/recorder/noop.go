package recorder

import (
	"context"

	"TickerBoard/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Append(_ context.Context, _ model.HistoryEntry) error { return nil }
func (n *NoopRecorder) QueryRecent(_ context.Context, _ string, _ int) ([]model.HistoryEntry, error) {
	return nil, nil
}
func (n *NoopRecorder) QueryLatest(_ context.Context, _ string) (model.HistoryEntry, error) {
	return model.HistoryEntry{}, ErrNotFound
}
func (n *NoopRecorder) Symbols(_ context.Context) ([]string, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                { return nil }
