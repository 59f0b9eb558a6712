package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWatchlist = `
crypto: [btc, ETH, SOL-EUR]
sections:
  - name: Tech
    symbols: [AAPL, msft, NVDA]
  - name: Autos
    symbols: [TSLA, AAPL]
`

func TestParseWatchlist(t *testing.T) {
	wl, err := ParseWatchlist([]byte(sampleWatchlist), "USD")
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC-USD", "ETH-USD", "SOL-EUR"}, wl.Crypto)
	require.Len(t, wl.Sections, 2)
	assert.Equal(t, "Tech", wl.Sections[0].Name)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, wl.Sections[0].Symbols)

	assert.Equal(t,
		[]string{"BTC-USD", "ETH-USD", "SOL-EUR", "AAPL", "MSFT", "NVDA", "TSLA"},
		wl.Symbols())
}

func TestParseWatchlist_Empty(t *testing.T) {
	wl, err := ParseWatchlist(nil, "USD")
	require.NoError(t, err)
	assert.Empty(t, wl.Symbols())
}

func TestParseWatchlist_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "crypto: [BTC"},
		{"unknown key", "stocks: [AAPL]"},
		{"missing section name", "sections:\n  - symbols: [AAPL]"},
		{"empty symbol", "sections:\n  - name: X\n    symbols: ['  ']"},
		{"symbol with space", "crypto: ['BT C']"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWatchlist([]byte(tt.data), "USD")
			assert.Error(t, err)
		})
	}
}

func TestSameMembers(t *testing.T) {
	assert.True(t, SameMembers([]string{"A", "B"}, []string{"B", "A"}))
	assert.True(t, SameMembers([]string{"A", "B", "A"}, []string{"B", "A"}))
	assert.True(t, SameMembers(nil, []string{}))
	assert.False(t, SameMembers([]string{"A", "B"}, []string{"A"}))
	assert.False(t, SameMembers([]string{"A"}, []string{"A", "C"}))
}

func TestWatcher_ReloadsValidChangesOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crypto: [BTC]\n"), 0o644))

	got := make(chan Watchlist, 4)
	w, err := NewWatcher(path, "USD", func(wl Watchlist) { got <- wl })
	require.NoError(t, err)
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("crypto: [BTC\n"), 0o644))
	select {
	case wl := <-got:
		t.Fatalf("invalid file must not be delivered, got %v", wl)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("crypto: [BTC, ETH]\n"), 0o644))
	select {
	case wl := <-got:
		assert.Equal(t, []string{"BTC-USD", "ETH-USD"}, wl.Symbols())
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watchlist reload")
	}
}

func TestWatcher_DebouncesBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crypto: [BTC]\n"), 0o644))

	got := make(chan Watchlist, 8)
	w, err := NewWatcher(path, "USD", func(wl Watchlist) { got <- wl })
	require.NoError(t, err)
	w.Debounce = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for _, content := range []string{
		"crypto: [ETH]\n",
		"crypto: [ETH, SOL]\n",
		"crypto: [ETH, SOL, DOGE]\n",
		"crypto: [SOL]\n",
		"crypto: [BTC]\nsections:\n  - name: Tech\n    symbols: [AAPL, MSFT]\n",
	} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case wl := <-got:
		assert.Equal(t, []string{"BTC-USD", "AAPL", "MSFT"}, wl.Symbols())
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watchlist reload")
	}
	select {
	case wl := <-got:
		t.Fatalf("burst must reload once, got second reload %v", wl.Symbols())
	case <-time.After(500 * time.Millisecond):
	}
}
