package calculator

import (
	"errors"
	"math"

	"TickerBoard/internal/model"
)

// HistoryRange scans the given entries and returns the highest and lowest price.
func HistoryRange(entries []model.HistoryEntry) (high, low float64, err error) {
	if len(entries) == 0 {
		return 0, 0, errors.New("no history entries provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, e := range entries {
		if e.Price > high {
			high = e.Price
		}
		if e.Price < low {
			low = e.Price
		}
	}
	return high, low, nil
}

// RangePosition returns where the current price sits within the range (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Summarize computes range statistics over chronologically ordered entries.
// The last entry is treated as the current price.
func Summarize(entries []model.HistoryEntry) (model.HistoryStats, error) {
	high, low, err := HistoryRange(entries)
	if err != nil {
		return model.HistoryStats{}, err
	}
	pos, err := RangePosition(entries[len(entries)-1].Price, high, low)
	if err != nil {
		return model.HistoryStats{}, err
	}
	return model.HistoryStats{High: high, Low: low, Position: pos, Count: len(entries)}, nil
}
