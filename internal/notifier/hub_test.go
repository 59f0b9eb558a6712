package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerBoard/internal/model"
)

func dialHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub()
	go h.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	return h, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHub_PublishPrice(t *testing.T) {
	h, conn := dialHub(t)

	h.PublishPrice(model.PriceRecord{Symbol: "AAPL", Price: 151.5, Change: 3, ChangePercent: null.FloatFrom(2.02)})

	m := readMessage(t, conn)
	assert.Equal(t, TypePrice, m["type"])
	data := m["data"].(map[string]any)
	assert.Equal(t, "AAPL", data["symbol"])
	assert.Equal(t, 151.5, data["price"])
	assert.NotEmpty(t, m["time"])
}

func TestHub_PublishWatchlist(t *testing.T) {
	h, conn := dialHub(t)

	h.PublishWatchlist(3)

	m := readMessage(t, conn)
	assert.Equal(t, TypeWatchlist, m["type"])
	assert.Equal(t, 3.0, m["data"].(map[string]any)["version"])
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	h, conn := dialHub(t)
	conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFormatPriceLine(t *testing.T) {
	rec := model.PriceRecord{
		Symbol:          "AAPL",
		Price:           151.5,
		Change:          3,
		ChangePercent:   null.FloatFrom(2.0202),
		Session:         model.SessionPreMarket,
		IsExtendedHours: true,
		ExchangeName:    null.StringFrom("NASDAQ"),
	}
	assert.Equal(t, "AAPL 151.50 +3.00 (+2.02%) pre NASDAQ", FormatPriceLine(rec))

	rec = model.PriceRecord{Symbol: "NEW", Price: 12, Change: 2}
	assert.Equal(t, "NEW 12.00 +2.00 (n/a)", FormatPriceLine(rec))
}
