package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerBoard/internal/model"
)

func TestPriceCache_SetReplacesWholeRecord(t *testing.T) {
	c := NewPriceCache()
	now := time.Now()

	c.Set(model.PriceRecord{Symbol: "AAPL", Price: 150, IsExtendedHours: true}, now)
	c.Set(model.PriceRecord{Symbol: "AAPL", Price: 151}, now.Add(time.Second))

	got, ok := c.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 151.0, got.Record.Price)
	assert.False(t, got.Record.IsExtendedHours)
	assert.Equal(t, SourceLive, got.Source)
}

func TestPriceCache_SeedIfAbsent(t *testing.T) {
	c := NewPriceCache()
	now := time.Now()

	assert.True(t, c.SeedIfAbsent(model.PriceRecord{Symbol: "MSFT", Price: 399}, now))
	got, _ := c.Get("MSFT")
	assert.Equal(t, SourceHistory, got.Source)

	c.Set(model.PriceRecord{Symbol: "MSFT", Price: 401}, now)
	assert.False(t, c.SeedIfAbsent(model.PriceRecord{Symbol: "MSFT", Price: 1}, now))
	got, _ = c.Get("MSFT")
	assert.Equal(t, 401.0, got.Record.Price)
}

func TestPriceCache_DeleteAndSnapshot(t *testing.T) {
	c := NewPriceCache()
	now := time.Now()
	for _, s := range []string{"TSLA", "AAPL", "BTC-USD"} {
		c.Set(model.PriceRecord{Symbol: s}, now)
	}

	c.Delete("TSLA", "UNKNOWN")
	_, ok := c.Get("TSLA")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "AAPL", snap[0].Record.Symbol)
	assert.Equal(t, "BTC-USD", snap[1].Record.Symbol)
}

func TestStateTracker(t *testing.T) {
	tr := NewStateTracker()
	tr.Observe("NYSE", model.MarketClosed)
	tr.Observe("NASDAQ", model.MarketPre)
	tr.Observe("NASDAQ", model.MarketRegular)
	tr.Observe("", model.MarketRegular)

	list := tr.List()
	require.Len(t, list, 2)
	assert.Equal(t, ExchangeState{Name: "NASDAQ", MarketState: model.MarketRegular, Open: true}, list[0])
	assert.Equal(t, ExchangeState{Name: "NYSE", MarketState: model.MarketClosed, Open: false}, list[1])

	tr.Clear()
	assert.Empty(t, tr.List())
	_, ok := tr.Get("NYSE")
	assert.False(t, ok)
}
