// Package storage provides SQLite-based persistence for snakefall run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
// It is safe for concurrent use by multiple sessions.
type Store struct {
	db *sql.DB
}

// Run is one finished snakefall run.
type Run struct {
	ID          int64
	Variant     string
	RowsCleared int
	Settlements int
	Length      int
	Reason      string // Game over reason, e.g. "out_of_bounds"
	Duration    time.Duration
	CreatedAt   time.Time
}

// RunStats contains aggregated statistics for a variant.
type RunStats struct {
	Variant     string
	RunsCount   int
	MostRows    int
	LongestBody int
	TotalRows   int64
	TotalPlayed time.Duration
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant TEXT NOT NULL,
			rows_cleared INTEGER NOT NULL DEFAULT 0,
			settlements INTEGER NOT NULL DEFAULT 0,
			length INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant);
		CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(variant, id DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (variant, rows_cleared, settlements, length, reason, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Variant, r.RowsCleared, r.Settlements, r.Length, r.Reason, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the latest runs for a variant, newest first.
// An empty variant matches every variant.
func (s *Store) RecentRuns(variant string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, variant, rows_cleared, settlements, length, reason, duration_ms, created_at
		 FROM runs
		 WHERE ? = '' OR variant = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Variant, &r.RowsCleared, &r.Settlements, &r.Length, &r.Reason, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// BestRun returns the run with the most cleared rows for a variant,
// breaking ties by length. Returns nil if no runs exist.
func (s *Store) BestRun(variant string) (*Run, error) {
	var r Run
	var durationMS int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, variant, rows_cleared, settlements, length, reason, duration_ms, created_at
		 FROM runs
		 WHERE variant = ?
		 ORDER BY rows_cleared DESC, length DESC, id ASC
		 LIMIT 1`,
		variant,
	).Scan(&r.ID, &r.Variant, &r.RowsCleared, &r.Settlements, &r.Length, &r.Reason, &durationMS, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best run: %w", err)
	}

	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// Stats retrieves aggregated statistics for a variant.
func (s *Store) Stats(variant string) (*RunStats, error) {
	stats := &RunStats{Variant: variant}

	var totalMS int64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(rows_cleared), 0), COALESCE(MAX(length), 0),
		        COALESCE(SUM(rows_cleared), 0), COALESCE(SUM(duration_ms), 0), MAX(created_at)
		 FROM runs WHERE variant = ?`,
		variant,
	).Scan(&stats.RunsCount, &stats.MostRows, &stats.LongestBody, &stats.TotalRows, &totalMS, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	stats.TotalPlayed = time.Duration(totalMS) * time.Millisecond
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// Variants returns every variant with at least one recorded run, sorted.
func (s *Store) Variants() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT variant FROM runs ORDER BY variant`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query variants: %w", err)
	}
	defer rows.Close()

	var variants []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return variants, nil
}

// ClearRuns deletes all runs for the given variant.
func (s *Store) ClearRuns(variant string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
