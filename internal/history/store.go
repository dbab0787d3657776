package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cruciblehq/barn/internal/paths"
)

// One recorded invocation.
type Entry struct {
	ID          int64
	BuildID     string // Empty for skipped invocations.
	Job         string
	Outcome     string // success, failure or skipped.
	Tags        []string
	Started     time.Time
	Duration    time.Duration
	Steps       int
	FailedSteps int
	Result      []byte // JSON encoding of the build result. Nil when skipped.
}

// SQLite-backed history of invocations.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Opens the store at path, creating the file and schema when needed. Use
// ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL DEFAULT '',
		job TEXT NOT NULL,
		outcome TEXT NOT NULL,
		tags TEXT NOT NULL,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		failed_steps INTEGER NOT NULL,
		result BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_job ON invocations(job);
	CREATE INDEX IF NOT EXISTS idx_started ON invocations(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Adds an entry and returns its id.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags, err := json.Marshal(nonNil(e.Tags))
	if err != nil {
		return 0, fmt.Errorf("%w: marshal tags: %w", ErrStore, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (build_id, job, outcome, tags, started, duration_ms, steps, failed_steps, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.BuildID, e.Job, e.Outcome, string(tags), e.Started.UnixMilli(), e.Duration.Milliseconds(),
		e.Steps, e.FailedSteps, e.Result,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %w", ErrStore, err)
	}

	return res.LastInsertId()
}

// Returns up to limit entries, newest first. An empty job lists every job;
// a non-positive limit lists everything.
func (s *Store) List(ctx context.Context, job string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, build_id, job, outcome, tags, started, duration_ms, steps, failed_steps, result FROM invocations`
	var args []any
	if job != "" {
		query += ` WHERE job = ?`
		args = append(args, job)
	}
	query += ` ORDER BY started DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrStore, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			tags       string
			startedMs  int64
			durationMs int64
		)
		if err := rows.Scan(&e.ID, &e.BuildID, &e.Job, &e.Outcome, &tags, &startedMs, &durationMs, &e.Steps, &e.FailedSteps, &e.Result); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrStore, err)
		}
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return nil, fmt.Errorf("%w: unmarshal tags: %w", ErrStore, err)
		}
		e.Started = time.UnixMilli(startedMs)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return entries, nil
}

// Closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
