package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/guregu/null/v6"
	_ "modernc.org/sqlite"

	"TickerBoard/internal/model"
)

var _ Recorder = (*SQLiteRecorder)(nil)

// SQLiteRecorder persists price history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the API can read history while the poller writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			symbol         TEXT NOT NULL,
			timestamp      TEXT NOT NULL,
			price          REAL NOT NULL,
			change         REAL NOT NULL,
			change_percent REAL,
			PRIMARY KEY (symbol, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_ts ON price_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Append(ctx context.Context, entry model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO price_history
		(symbol, timestamp, price, change, change_percent)
		VALUES (?,?,?,?,?)
		ON CONFLICT(symbol, timestamp) DO UPDATE SET
			price = excluded.price,
			change = excluded.change,
			change_percent = excluded.change_percent`,
		entry.Symbol,
		entry.Timestamp.UTC().Format(model.HistoryTimeLayout),
		entry.Price,
		entry.Change,
		entry.ChangePercent,
	)
	if err != nil {
		return fmt.Errorf("insert history %s: %w", entry.Symbol, err)
	}
	return nil
}

func (r *SQLiteRecorder) QueryRecent(ctx context.Context, symbol string, limit int) ([]model.HistoryEntry, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit <= 0 {
		rows, err = r.db.QueryContext(ctx, `SELECT symbol, timestamp, price, change, change_percent
			FROM price_history WHERE symbol = ? ORDER BY timestamp ASC`, symbol)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT symbol, timestamp, price, change, change_percent
			FROM price_history WHERE symbol = ? ORDER BY timestamp DESC LIMIT ?`, symbol, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query history %s: %w", symbol, err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history %s: %w", symbol, err)
	}

	if limit > 0 {
		// Newest-first from the query; callers get chronological order.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	return entries, nil
}

func (r *SQLiteRecorder) QueryLatest(ctx context.Context, symbol string) (model.HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT symbol, timestamp, price, change, change_percent
		FROM price_history WHERE symbol = ? ORDER BY timestamp DESC LIMIT 1`, symbol)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryEntry{}, ErrNotFound
	}
	return e, err
}

func (r *SQLiteRecorder) Symbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM price_history ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (model.HistoryEntry, error) {
	var (
		e  model.HistoryEntry
		ts string
		cp null.Float
	)
	if err := s.Scan(&e.Symbol, &ts, &e.Price, &e.Change, &cp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scan history: %w", err)
	}
	t, err := time.Parse(model.HistoryTimeLayout, ts)
	if err != nil {
		return e, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	e.Timestamp = t
	e.ChangePercent = cp
	return e, nil
}
