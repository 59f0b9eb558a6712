package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"TickerBoard/internal/calculator"
	"TickerBoard/internal/collector"
	"TickerBoard/internal/config"
	"TickerBoard/internal/market"
	"TickerBoard/internal/recorder"
	"TickerBoard/internal/scheduler"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 5000
)

// Board is the read side of the poller that the API serves from.
type Board interface {
	Latest(symbol string) (market.CachedPrice, bool)
	MarketStates() []market.ExchangeState
	Version() int64
	Watchlist() config.Watchlist
	Symbols() []string
	State() scheduler.State
}

// Handler serves the dashboard API.
type Handler struct {
	board     Board
	collector *collector.Collector
	recorder  recorder.Recorder
}

func NewHandler(board Board, col *collector.Collector, rec recorder.Recorder) *Handler {
	return &Handler{board: board, collector: col, recorder: rec}
}

// Health reports liveness and the poller state.
// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"state":   h.board.State(),
		"symbols": len(h.board.Symbols()),
	})
}

// GetWatchlist returns the watchlist being polled.
// GET /api/watchlist
func (h *Handler) GetWatchlist(c *gin.Context) {
	wl := h.board.Watchlist()
	c.JSON(http.StatusOK, gin.H{
		"crypto":   wl.Crypto,
		"sections": wl.Sections,
		"symbols":  h.board.Symbols(),
		"version":  h.board.Version(),
		"state":    h.board.State(),
	})
}

type quoteRow struct {
	Symbol string              `json:"symbol"`
	Quote  *market.CachedPrice `json:"quote"`
}

// GetQuotes returns the latest cached price of every watchlist symbol, in
// polling order. Symbols not polled yet carry a null quote.
// GET /api/quotes
func (h *Handler) GetQuotes(c *gin.Context) {
	symbols := h.board.Symbols()
	rows := make([]quoteRow, 0, len(symbols))
	for _, sym := range symbols {
		row := quoteRow{Symbol: sym}
		if p, ok := h.board.Latest(sym); ok {
			row.Quote = &p
		}
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, gin.H{"version": h.board.Version(), "data": rows})
}

// GetQuote returns one symbol. With live=1 it fetches a fresh quote and
// falls back to the cache when the provider fails.
// GET /api/quote/:symbol
func (h *Handler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))

	if live, _ := strconv.ParseBool(c.DefaultQuery("live", "false")); live && h.collector != nil {
		rec, err := h.collector.Collect(c.Request.Context(), symbol)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"data": market.CachedPrice{Record: rec, UpdatedAt: time.Now(), Source: market.SourceLive}})
			return
		}
		log.Printf("[WARN] live quote %s, serving cache: %v", symbol, err)
	}

	p, ok := h.board.Latest(symbol)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price for " + symbol})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// GetHistory returns recent history in chronological order with range
// statistics over the returned window.
// GET /api/history/:symbol?limit=N
func (h *Handler) GetHistory(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	limit = min(limit, maxHistoryLimit)

	entries, err := h.recorder.QueryRecent(c.Request.Context(), symbol, limit)
	if err != nil {
		log.Printf("[ERROR] query history %s: %v", symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	resp := gin.H{"symbol": symbol, "data": entries, "stats": nil}
	if stats, err := calculator.Summarize(entries); err == nil {
		resp["stats"] = stats
	}
	c.JSON(http.StatusOK, resp)
}

// GetMarkets returns the last observed state of every exchange.
// GET /api/markets
func (h *Handler) GetMarkets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.board.MarketStates()})
}
