package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"TickerBoard/internal/notifier"
)

// NewRouter wires the API routes, the websocket stream and, when staticDir
// is set, the dashboard UI under /ui.
func NewRouter(h *Handler, hub *notifier.Hub, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(requestLogger())

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/watchlist", h.GetWatchlist)
		api.GET("/quotes", h.GetQuotes)
		api.GET("/quote/:symbol", h.GetQuote)
		api.GET("/history/:symbol", h.GetHistory)
		api.GET("/markets", h.GetMarkets)
		if hub != nil {
			api.GET("/ws", gin.WrapF(hub.ServeWS))
		}
	}

	if staticDir != "" {
		r.Static("/ui", staticDir)
		r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/ui/") })
	}
	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger logs failed and slow requests only; the dashboard polls a lot.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		if c.Writer.Status() >= 400 || duration > time.Second {
			log.Printf("[WARN] %s %s %d %v", c.Request.Method, path, c.Writer.Status(), duration)
		}
	}
}
