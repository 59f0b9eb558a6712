package market

import (
	"sort"
	"sync"

	"TickerBoard/internal/model"
)

// ExchangeState is the last market state observed on one exchange.
type ExchangeState struct {
	Name        string            `json:"name"`
	MarketState model.MarketState `json:"marketState"`
	Open        bool              `json:"open"`
}

// StateTracker maps exchange display names to the last observed market
// state. Entries never expire on their own; Clear drops them all.
type StateTracker struct {
	mu     sync.RWMutex
	states map[string]model.MarketState
}

func NewStateTracker() *StateTracker {
	return &StateTracker{states: make(map[string]model.MarketState)}
}

// Observe records the state of an exchange. Empty names are ignored.
func (t *StateTracker) Observe(exchange string, state model.MarketState) {
	if exchange == "" {
		return
	}
	t.mu.Lock()
	t.states[exchange] = state
	t.mu.Unlock()
}

func (t *StateTracker) Clear() {
	t.mu.Lock()
	t.states = make(map[string]model.MarketState)
	t.mu.Unlock()
}

func (t *StateTracker) Get(exchange string) (model.MarketState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.states[exchange]
	return s, ok
}

// List returns every tracked exchange sorted by name.
func (t *StateTracker) List() []ExchangeState {
	t.mu.RLock()
	out := make([]ExchangeState, 0, len(t.states))
	for name, s := range t.states {
		out = append(out, ExchangeState{Name: name, MarketState: s, Open: s.IsOpen()})
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
