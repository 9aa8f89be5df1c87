// Package storage persists blocker-check records and run history in
// SQLite. It carries precondition state between CLI invocations (the
// ranking step must fail when no sufficiently fresh blocker check exists)
// and an append-only archive of produced reports. Scan evidence is never
// stored: every run re-reads the filesystem.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/canopyapps/nextup/internal/blockers"
)

const schema = `
CREATE TABLE IF NOT EXISTS blocker_checks (
    run_id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_blocker_checks_created_at ON blocker_checks(created_at);

CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    winner TEXT NOT NULL DEFAULT '',
    total_features INTEGER NOT NULL DEFAULT 0,
    report TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path, initializing the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// BlockerCheck is a persisted blocker detection record.
type BlockerCheck struct {
	RunID     string
	Results   []blockers.Result
	CreatedAt time.Time
}

// Age returns how old the record is.
func (c *BlockerCheck) Age() time.Duration {
	return time.Since(c.CreatedAt)
}

// SaveBlockerCheck stores one detection run's results as JSON.
func (s *Store) SaveBlockerCheck(ctx context.Context, runID string, results []blockers.Result) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("serializing blocker results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO blocker_checks (run_id, payload, created_at) VALUES (?, ?, ?)`,
		runID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving blocker check: %w", err)
	}
	return nil
}

// LatestBlockerCheck returns the most recent record, or nil when none
// exists.
func (s *Store) LatestBlockerCheck(ctx context.Context) (*BlockerCheck, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, payload, created_at FROM blocker_checks ORDER BY created_at DESC LIMIT 1`)

	var check BlockerCheck
	var payload string
	if err := row.Scan(&check.RunID, &payload, &check.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading blocker check: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &check.Results); err != nil {
		return nil, fmt.Errorf("parsing blocker check payload: %w", err)
	}
	return &check, nil
}

// RunSummary is one archived engine run.
type RunSummary struct {
	RunID         string
	Winner        string
	TotalFeatures int
	CreatedAt     time.Time
}

// SaveRun archives a completed run and its rendered report.
func (s *Store) SaveRun(ctx context.Context, runID, winner string, totalFeatures int, report string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, winner, total_features, report, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, winner, totalFeatures, report, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// RecentRuns lists the newest n run summaries.
func (s *Store) RecentRuns(ctx context.Context, n int) ([]RunSummary, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, winner, total_features, created_at FROM runs ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Winner, &r.TotalFeatures, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
