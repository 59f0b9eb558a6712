package collector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"TickerBoard/internal/calculator"
	"TickerBoard/internal/model"
)

// MockFetcher returns a bounded random walk around Price for development
// and demo runs without network access.
type MockFetcher struct {
	Price float64
	State model.MarketState

	mu   sync.Mutex
	last map[string]float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.QuoteSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = make(map[string]float64)
	}

	base := m.Price
	if base <= 0 {
		base = 100
	}
	prev, ok := m.last[symbol]
	if !ok {
		prev = base
	}
	// One step of at most +/-0.5%, kept within 20% of the base.
	p := prev * (1 + (rand.Float64()-0.5)*0.01)
	p = min(max(p, base*0.8), base*1.2)
	m.last[symbol] = p

	state := m.State
	if state == "" {
		state = model.MarketRegular
	}
	snap := &model.QuoteSnapshot{
		Symbol:                     symbol,
		RegularMarketPrice:         p,
		RegularMarketPreviousClose: base,
		MarketState:                state,
		ShortName:                  symbol,
	}
	snap.RegularMarketChange.SetValid(p - base)
	snap.RegularMarketChangePercent.SetValid((p - base) / base * 100)
	if strings.HasSuffix(symbol, "-USD") {
		snap.Exchange, snap.FullExchangeName = "CCC", "CCC"
	} else {
		snap.Exchange, snap.FullExchangeName = "NMS", "NasdaqGS"
	}
	return snap, nil
}

// Collector turns raw quotes into canonical price records.
type Collector struct {
	Fetcher Fetcher
	Timeout time.Duration
}

// NewCollector creates a new Collector. A zero timeout means no per-fetch limit.
func NewCollector(fetcher Fetcher, timeout time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Timeout: timeout}
}

// Collect fetches one quote and normalizes it. The returned record always
// carries the requested symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (model.PriceRecord, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	snap, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	if snap == nil {
		return model.PriceRecord{}, fmt.Errorf("fetch quote %s: empty snapshot", symbol)
	}

	rec := calculator.Normalize(snap)
	rec.Symbol = symbol
	return rec, nil
}
