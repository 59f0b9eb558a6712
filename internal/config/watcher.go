package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the watchlist file when it changes on disk and hands every
// valid result to OnChange. Invalid files are logged and dropped, leaving
// the previous watchlist in effect.
type Watcher struct {
	Path        string
	CryptoQuote string
	Debounce    time.Duration
	OnChange    func(Watchlist)

	fw    *fsnotify.Watcher
	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches the directory holding path, so that editors that
// replace the file by rename are still seen.
func NewWatcher(path, cryptoQuote string, onChange func(Watchlist)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve watchlist path: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		Path:        abs,
		CryptoQuote: cryptoQuote,
		Debounce:    DefaultDebounce,
		OnChange:    onChange,
		fw:          fw,
	}, nil
}

// Run processes file events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) {
	log.Printf("[INFO] watching %s for changes", w.Path)
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.Path || ev.Op == fsnotify.Chmod {
				continue
			}
			w.schedule()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("[WARN] watchlist watcher: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, w.reload)
}

func (w *Watcher) reload() {
	wl, err := LoadWatchlist(w.Path, w.CryptoQuote)
	if err != nil {
		log.Printf("[WARN] watchlist change rejected, keeping previous list: %v", err)
		return
	}
	log.Printf("[INFO] watchlist file changed: %d symbols", len(wl.Symbols()))
	if w.OnChange != nil {
		w.OnChange(wl)
	}
}

func (w *Watcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fw.Close(); err != nil {
		log.Printf("[WARN] close watchlist watcher: %v", err)
	}
}
