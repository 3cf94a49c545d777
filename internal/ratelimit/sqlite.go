package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLog is a call log backed by a SQLite file, so multiple processes
// syncing through the same API key share one rate-limit window.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLiteLog opens (and if needed creates) a call log at the given DSN.
// Use ":memory:" for tests.
func OpenSQLiteLog(dsn string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open call log: %w", err)
	}

	// Single connection for SQLite to avoid locking issues.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS api_calls (
		called_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create api_calls: %w", err)
	}
	if _, err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_api_calls_called_at ON api_calls (called_at)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create api_calls index: %w", err)
	}

	return &SQLiteLog{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteLog) Close() error {
	return s.db.Close()
}

// Record appends t and prunes entries too old to ever matter again.
func (s *SQLiteLog) Record(ctx context.Context, t time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO api_calls (called_at) VALUES (?)`, t.UnixMilli()); err != nil {
		return fmt.Errorf("insert call: %w", err)
	}

	horizon := t.Add(-2 * DefaultWindow).UnixMilli()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM api_calls WHERE called_at < ?`, horizon); err != nil {
		return fmt.Errorf("prune call log: %w", err)
	}
	return nil
}

// Recent returns timestamps at or after cutoff, oldest first.
func (s *SQLiteLog) Recent(ctx context.Context, cutoff time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT called_at FROM api_calls WHERE called_at >= ? ORDER BY called_at`,
		cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query call log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []time.Time
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		out = append(out, time.UnixMilli(ms))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call log: %w", err)
	}
	return out, nil
}
