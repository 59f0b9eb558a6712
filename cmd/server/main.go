package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"TickerBoard/internal/api"
	"TickerBoard/internal/collector"
	"TickerBoard/internal/config"
	"TickerBoard/internal/market"
	"TickerBoard/internal/notifier"
	"TickerBoard/internal/recorder"
	"TickerBoard/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerBoard starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	wl, err := config.LoadWatchlist(cfg.Watchlist.Path, cfg.Watchlist.CryptoQuote)
	if err != nil {
		log.Fatalf("[FATAL] load watchlist: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = &collector.MockFetcher{Price: cfg.DataSource.MockPrice}
	} else {
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.DataSource.UserAgent, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.Polling.FetchTimeout)

	// Init recorder
	var rec recorder.Recorder
	if !cfg.Database.Disabled {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notifier.NewHub()
	go hub.Run(ctx)

	sched := scheduler.NewScheduler(ctx, col, rec, market.NewPriceCache(), market.NewStateTracker(), cfg.PollInterval())
	sched.Broadcaster = hub

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(sched, col, rec), hub, cfg.Server.StaticDir)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	sched.Start(wl)

	// Watchlist hot reload, armed once the initial list is running.
	watcher, err := config.NewWatcher(cfg.Watchlist.Path, cfg.Watchlist.CryptoQuote, sched.Reload)
	if err != nil {
		log.Printf("[WARN] watchlist hot reload disabled: %v", err)
	} else {
		go watcher.Run(ctx)
	}

	log.Println("[INFO] TickerBoard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http server shutdown: %v", err)
	}
	log.Println("[INFO] TickerBoard stopped")
}
