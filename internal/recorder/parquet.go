package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// HistoryRecord is the Parquet schema for exported price history.
type HistoryRecord struct {
	Symbol        string   `parquet:"symbol"`
	Timestamp     int64    `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Price         float64  `parquet:"price"`
	Change        float64  `parquet:"change"`
	ChangePercent *float64 `parquet:"change_percent,optional"`
}

// ExportParquet writes the history of the given symbols (all recorded symbols
// when empty) to a single Parquet file and returns the number of rows written.
func ExportParquet(ctx context.Context, r Recorder, path string, symbols []string) (int, error) {
	if len(symbols) == 0 {
		all, err := r.Symbols(ctx)
		if err != nil {
			return 0, fmt.Errorf("list symbols: %w", err)
		}
		symbols = all
	}

	var records []HistoryRecord
	for _, sym := range symbols {
		entries, err := r.QueryRecent(ctx, sym, 0)
		if err != nil {
			return 0, fmt.Errorf("read history %s: %w", sym, err)
		}
		for _, e := range entries {
			records = append(records, HistoryRecord{
				Symbol:        e.Symbol,
				Timestamp:     e.Timestamp.UnixMilli(),
				Price:         e.Price,
				Change:        e.Change,
				ChangePercent: e.ChangePercent.Ptr(),
			})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return 0, fmt.Errorf("write parquet %s: %w", path, err)
	}
	return len(records), nil
}
