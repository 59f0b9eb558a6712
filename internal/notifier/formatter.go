package notifier

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TickerBoard/internal/model"
)

// Message types pushed to websocket clients.
const (
	TypePrice     = "price"
	TypeWatchlist = "watchlist"
)

// Message is the envelope for every websocket push.
type Message struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	Time time.Time `json:"time"`
}

// WatchlistChange tells clients to refetch the watchlist.
type WatchlistChange struct {
	Version int64 `json:"version"`
}

// EncodePrice builds the push payload for a freshly polled record.
func EncodePrice(rec model.PriceRecord, at time.Time) ([]byte, error) {
	b, err := json.Marshal(Message{Type: TypePrice, Data: rec, Time: at.UTC()})
	if err != nil {
		return nil, fmt.Errorf("encode price %s: %w", rec.Symbol, err)
	}
	return b, nil
}

// EncodeWatchlist builds the push payload announcing a new watchlist version.
func EncodeWatchlist(version int64, at time.Time) ([]byte, error) {
	b, err := json.Marshal(Message{Type: TypeWatchlist, Data: WatchlistChange{Version: version}, Time: at.UTC()})
	if err != nil {
		return nil, fmt.Errorf("encode watchlist: %w", err)
	}
	return b, nil
}

// FormatPriceLine renders a record as a one-line log summary, e.g.
// "AAPL 151.50 +3.00 (+2.02%) pre NASDAQ".
func FormatPriceLine(rec model.PriceRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %.2f %+.2f", rec.Symbol, rec.Price, rec.Change))
	if rec.ChangePercent.Valid {
		b.WriteString(fmt.Sprintf(" (%+.2f%%)", rec.ChangePercent.Float64))
	} else {
		b.WriteString(" (n/a)")
	}
	if rec.IsExtendedHours {
		b.WriteString(" " + string(rec.Session))
	}
	if rec.ExchangeName.Valid {
		b.WriteString(" " + rec.ExchangeName.String)
	}
	return b.String()
}
