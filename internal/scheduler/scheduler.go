package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"TickerBoard/internal/collector"
	"TickerBoard/internal/config"
	"TickerBoard/internal/market"
	"TickerBoard/internal/model"
	"TickerBoard/internal/notifier"
	"TickerBoard/internal/recorder"
)

// State is the lifecycle state of the scheduler.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StateReloading State = "RELOADING"
)

// seedTimeout bounds the history lookups done when symbols are added.
const seedTimeout = 5 * time.Second

// Broadcaster receives every successfully polled record and watchlist change.
type Broadcaster interface {
	PublishPrice(rec model.PriceRecord)
	PublishWatchlist(version int64)
}

// Scheduler polls one watchlist symbol per tick in round-robin order.
//
// The cursor moves to the next symbol only once the fetch for the current
// one has finished, successfully or not. Ticks never overlap: the timer and
// the immediate cycle after Start or Reload share one job wrapped with
// cron.SkipIfStillRunning.
type Scheduler struct {
	Collector   *collector.Collector
	Recorder    recorder.Recorder
	Cache       *market.PriceCache
	Tracker     *market.StateTracker
	Broadcaster Broadcaster
	Interval    time.Duration

	ctx    context.Context
	job    cron.Job
	logger cron.Logger
	now    func() time.Time

	// ops serializes Start, Reload and Stop.
	ops sync.Mutex

	mu         sync.Mutex
	cron       *cron.Cron
	state      State
	watchlist  config.Watchlist
	symbols    []string
	cursor     int
	generation uint64
	version    int64
	stopped    bool
}

// NewScheduler creates an idle scheduler. ctx bounds every fetch and write
// made by the scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, cache *market.PriceCache, tracker *market.StateTracker, interval time.Duration) *Scheduler {
	s := &Scheduler{
		Collector: col,
		Recorder:  rec,
		Cache:     cache,
		Tracker:   tracker,
		Interval:  interval,
		ctx:       ctx,
		logger:    cron.PrintfLogger(log.Default()),
		now:       time.Now,
		state:     StateIdle,
	}
	s.job = cron.NewChain(cron.SkipIfStillRunning(s.logger)).Then(cron.FuncJob(func() { s.Tick(s.ctx) }))
	return s
}

// Start begins polling wl. An empty watchlist leaves the scheduler idle.
// Calling Start on a running scheduler behaves as Reload. A stopped
// scheduler ignores Start.
func (s *Scheduler) Start(wl config.Watchlist) {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		log.Println("[WARN] scheduler stopped, start ignored")
		return
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		s.reload(wl)
		return
	}
	s.watchlist = wl
	s.symbols = wl.Symbols()
	s.cursor = 0
	s.generation++
	symbols := s.symbols
	if len(symbols) == 0 {
		s.mu.Unlock()
		log.Println("[INFO] watchlist is empty, scheduler idle")
		return
	}
	s.state = StateRunning
	s.mu.Unlock()

	s.seed(symbols)
	s.arm()
	log.Printf("[INFO] scheduler started: %d symbols every %s", len(symbols), s.Interval)
	s.job.Run()
}

// Reload swaps in a new watchlist. A list with the same members as the
// current one is ignored, leaving the timer and cursor untouched.
func (s *Scheduler) Reload(wl config.Watchlist) {
	s.ops.Lock()
	defer s.ops.Unlock()
	s.reload(wl)
}

func (s *Scheduler) reload(wl config.Watchlist) {
	next := wl.Symbols()

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		log.Println("[WARN] scheduler stopped, reload ignored")
		return
	}
	prev := s.symbols
	if config.SameMembers(prev, next) {
		s.mu.Unlock()
		log.Println("[INFO] watchlist unchanged, reload skipped")
		return
	}

	s.state = StateReloading
	s.disarmLocked()
	removed := difference(prev, next)
	added := difference(next, prev)

	s.Cache.Delete(removed...)
	s.Tracker.Clear()
	s.watchlist = wl
	s.symbols = next
	s.cursor = 0
	s.generation++
	s.version++
	version := s.version
	s.mu.Unlock()

	s.seed(added)
	log.Printf("[INFO] watchlist reloaded (version %d): +%d -%d, %d symbols", version, len(added), len(removed), len(next))
	if s.Broadcaster != nil {
		s.Broadcaster.PublishWatchlist(version)
	}

	s.mu.Lock()
	if len(next) == 0 {
		s.state = StateIdle
		s.mu.Unlock()
		log.Println("[INFO] watchlist is empty, scheduler idle")
		return
	}
	s.state = StateRunning
	s.mu.Unlock()

	s.arm()
	s.job.Run()
}

// Stop halts the timer and waits for a timer-started tick to finish. It is
// final: later Start and Reload calls are ignored.
func (s *Scheduler) Stop() {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.stopped = true
	s.state = StateIdle
	s.generation++
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	log.Println("[INFO] scheduler stopped")
}

// arm replaces the timer with a fresh one firing every Interval.
func (s *Scheduler) arm() {
	c := cron.New(cron.WithLogger(s.logger))
	c.Schedule(cron.Every(s.Interval), s.job)

	s.mu.Lock()
	s.disarmLocked()
	s.cron = c
	s.mu.Unlock()
	c.Start()
}

// disarmLocked stops the current timer without waiting for a running tick.
func (s *Scheduler) disarmLocked() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// Tick polls the symbol under the cursor, then advances the cursor. A tick
// that started before a reload or stop does not move the new cursor.
func (s *Scheduler) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateRunning || len(s.symbols) == 0 {
		s.mu.Unlock()
		return
	}
	gen := s.generation
	idx := s.cursor
	n := len(s.symbols)
	symbol := s.symbols[idx]
	s.mu.Unlock()

	s.poll(ctx, symbol)

	s.mu.Lock()
	if s.generation == gen {
		s.cursor = (idx + 1) % n
	}
	s.mu.Unlock()
}

func (s *Scheduler) poll(ctx context.Context, symbol string) {
	rec, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] poll %s: %v", symbol, err)
		return
	}
	now := s.now()

	if err := s.Recorder.Append(ctx, model.NewHistoryEntry(rec, now)); err != nil {
		log.Printf("[ERROR] record history %s: %v", symbol, err)
	}
	s.Cache.Set(rec, now)
	if rec.ExchangeName.Valid && rec.MarketState != "" {
		s.Tracker.Observe(rec.ExchangeName.String, rec.MarketState)
	}
	if s.Broadcaster != nil {
		s.Broadcaster.PublishPrice(rec)
	}
	log.Printf("[INFO] %s", notifier.FormatPriceLine(rec))
}

// seed fills the cache for symbols that have no entry yet from their newest
// history row.
func (s *Scheduler) seed(symbols []string) {
	if len(symbols) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, seedTimeout)
	defer cancel()

	seeded := 0
	for _, sym := range symbols {
		e, err := s.Recorder.QueryLatest(ctx, sym)
		if errors.Is(err, recorder.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("[WARN] seed %s from history: %v", sym, err)
			continue
		}
		if s.Cache.SeedIfAbsent(e.Record(), e.Timestamp) {
			seeded++
		}
	}
	if seeded > 0 {
		log.Printf("[INFO] seeded %d symbols from history", seeded)
	}
}

// Latest returns the cached price for symbol.
func (s *Scheduler) Latest(symbol string) (market.CachedPrice, bool) {
	return s.Cache.Get(symbol)
}

// MarketStates returns the observed exchange states sorted by name.
func (s *Scheduler) MarketStates() []market.ExchangeState {
	return s.Tracker.List()
}

// Version is bumped by every reload that changes watchlist membership.
func (s *Scheduler) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Watchlist returns the watchlist being polled.
func (s *Scheduler) Watchlist() config.Watchlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchlist
}

// Symbols returns a copy of the flattened polling order.
func (s *Scheduler) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.symbols...)
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// difference returns the members of a missing from b, in a's order.
func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := in[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
