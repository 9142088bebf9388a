// Package sqlite stores run history in a single SQLite file using the pure
// Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // driver "sqlite"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id            TEXT PRIMARY KEY,
	started_at        TEXT NOT NULL,
	base_url          TEXT NOT NULL,
	total_requests    INTEGER NOT NULL,
	failed            INTEGER NOT NULL,
	concurrent_avg_ms REAL,
	report_json       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the database file at path, enables WAL and creates
// the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, r *domain.RunReport) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	sum := r.Summary()
	var avg sql.NullFloat64
	if sum.ConcurrentAvgMS != nil {
		avg = sql.NullFloat64{Float64: *sum.ConcurrentAvgMS, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO runs (run_id, started_at, base_url, total_requests, failed, concurrent_avg_ms, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id) DO UPDATE SET
		started_at = excluded.started_at,
		base_url = excluded.base_url,
		total_requests = excluded.total_requests,
		failed = excluded.failed,
		concurrent_avg_ms = excluded.concurrent_avg_ms,
		report_json = excluded.report_json`,
		sum.RunID, sum.Timestamp.UTC().Format(timeLayout), sum.BaseURL,
		sum.TotalRequests, sum.Failed, avg, string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT run_id, started_at, base_url, total_requests, failed, concurrent_avg_ms
	  FROM runs
	 ORDER BY started_at DESC, rowid DESC
	 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []domain.RunSummary{}
	for rows.Next() {
		var (
			sum     domain.RunSummary
			started string
			avg     sql.NullFloat64
		)
		if err := rows.Scan(&sum.RunID, &started, &sum.BaseURL, &sum.TotalRequests, &sum.Failed, &avg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if sum.Timestamp, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		if avg.Valid {
			v := avg.Float64
			sum.ConcurrentAvgMS = &v
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, runID string) (*domain.RunReport, error) {
	return s.one(ctx, `SELECT report_json FROM runs WHERE run_id = ?`, runID)
}

func (s *Store) Latest(ctx context.Context) (*domain.RunReport, error) {
	return s.one(ctx, `SELECT report_json FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
}

func (s *Store) one(ctx context.Context, query string, args ...any) (*domain.RunReport, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	var r domain.RunReport
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
