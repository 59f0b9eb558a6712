package market

import (
	"sort"
	"sync"
	"time"

	"TickerBoard/internal/model"
)

// Source tells where a cached price came from.
type Source string

const (
	SourceLive    Source = "live"
	SourceHistory Source = "history"
)

// CachedPrice is the latest known price for one symbol.
type CachedPrice struct {
	Record    model.PriceRecord `json:"record"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Source    Source            `json:"source"`
}

// PriceCache holds the latest record per symbol. Entries are replaced whole.
type PriceCache struct {
	mu     sync.RWMutex
	prices map[string]CachedPrice
}

// NewPriceCache creates an empty cache.
func NewPriceCache() *PriceCache {
	return &PriceCache{prices: make(map[string]CachedPrice)}
}

// Set stores a freshly polled record.
func (c *PriceCache) Set(rec model.PriceRecord, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[rec.Symbol] = CachedPrice{Record: rec, UpdatedAt: at, Source: SourceLive}
}

// SeedIfAbsent stores a record recovered from history unless the symbol
// already has an entry. It reports whether the seed was applied.
func (c *PriceCache) SeedIfAbsent(rec model.PriceRecord, at time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.prices[rec.Symbol]; ok {
		return false
	}
	c.prices[rec.Symbol] = CachedPrice{Record: rec, UpdatedAt: at, Source: SourceHistory}
	return true
}

// Get returns the cached price for symbol.
func (c *PriceCache) Get(symbol string) (CachedPrice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prices[symbol]
	return p, ok
}

// Delete removes the given symbols.
func (c *PriceCache) Delete(symbols ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range symbols {
		delete(c.prices, s)
	}
}

// Len returns the number of cached symbols.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.prices)
}

// Snapshot returns a copy of every entry, sorted by symbol.
func (c *PriceCache) Snapshot() []CachedPrice {
	c.mu.RLock()
	out := make([]CachedPrice, 0, len(c.prices))
	for _, p := range c.prices {
		out = append(out, p)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Record.Symbol < out[j].Record.Symbol })
	return out
}
