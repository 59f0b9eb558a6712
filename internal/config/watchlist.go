package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section is a named group of symbols shown together on the board.
type Section struct {
	Name    string   `yaml:"name" json:"name"`
	Symbols []string `yaml:"symbols" json:"symbols"`
}

// Watchlist is the validated set of symbols to poll. Crypto holds full
// tickers (BTC-USD), not the bare asset codes written in the file.
type Watchlist struct {
	Crypto   []string  `json:"crypto"`
	Sections []Section `json:"sections"`
}

type watchlistFile struct {
	Crypto   []string  `yaml:"crypto"`
	Sections []Section `yaml:"sections"`
}

// LoadWatchlist reads and validates a watchlist file.
func LoadWatchlist(path, cryptoQuote string) (Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Watchlist{}, fmt.Errorf("read watchlist: %w", err)
	}
	return ParseWatchlist(data, cryptoQuote)
}

// ParseWatchlist decodes watchlist YAML. Unknown keys are rejected so that a
// typo never silently empties the board.
func ParseWatchlist(data []byte, cryptoQuote string) (Watchlist, error) {
	var f watchlistFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Watchlist{}, fmt.Errorf("parse watchlist: %w", err)
	}
	return NewWatchlist(f.Crypto, f.Sections, cryptoQuote)
}

// NewWatchlist normalizes and validates symbols. Bare crypto codes become
// CODE-QUOTE tickers; codes that already carry a dash are kept as written.
func NewWatchlist(crypto []string, sections []Section, cryptoQuote string) (Watchlist, error) {
	quote := strings.ToUpper(strings.TrimSpace(cryptoQuote))
	if quote == "" {
		return Watchlist{}, fmt.Errorf("crypto quote currency is required")
	}

	wl := Watchlist{Crypto: make([]string, 0, len(crypto))}
	for i, c := range crypto {
		sym, err := normalizeSymbol(c)
		if err != nil {
			return Watchlist{}, fmt.Errorf("crypto[%d]: %w", i, err)
		}
		if !strings.Contains(sym, "-") {
			sym = sym + "-" + quote
		}
		wl.Crypto = append(wl.Crypto, sym)
	}

	for i, s := range sections {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return Watchlist{}, fmt.Errorf("sections[%d]: name is required", i)
		}
		sec := Section{Name: name, Symbols: make([]string, 0, len(s.Symbols))}
		for j, raw := range s.Symbols {
			sym, err := normalizeSymbol(raw)
			if err != nil {
				return Watchlist{}, fmt.Errorf("section %q symbols[%d]: %w", name, j, err)
			}
			sec.Symbols = append(sec.Symbols, sym)
		}
		wl.Sections = append(wl.Sections, sec)
	}
	return wl, nil
}

func normalizeSymbol(raw string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return "", fmt.Errorf("empty symbol")
	}
	if strings.ContainsAny(sym, " \t,/") {
		return "", fmt.Errorf("invalid symbol %q", raw)
	}
	return sym, nil
}

// Symbols flattens the watchlist into polling order: crypto tickers first,
// then every section in declaration order. Repeats keep their first position.
func (w Watchlist) Symbols() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range w.Crypto {
		add(s)
	}
	for _, sec := range w.Sections {
		for _, s := range sec.Symbols {
			add(s)
		}
	}
	return out
}

// SameMembers reports whether both lists contain the same symbols,
// regardless of order or repeats.
func SameMembers(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = false
	}
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
		set[s] = true
	}
	for _, hit := range set {
		if !hit {
			return false
		}
	}
	return true
}
