package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
  run_id            TEXT PRIMARY KEY,
  started_at        TIMESTAMPTZ NOT NULL,
  base_url          TEXT NOT NULL,
  total_requests    INTEGER NOT NULL,
  failed            INTEGER NOT NULL,
  concurrent_avg_ms DOUBLE PRECISION NULL,
  report            JSONB NOT NULL,
  saved_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at DESC);
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{pool: pool, log: log}, nil
}

// EnsureSchema creates the runs table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Save(ctx context.Context, r *domain.RunReport) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	sum := r.Summary()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs
		   (run_id, started_at, base_url, total_requests, failed, concurrent_avg_ms, report)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (run_id) DO UPDATE SET
		   started_at = EXCLUDED.started_at,
		   base_url = EXCLUDED.base_url,
		   total_requests = EXCLUDED.total_requests,
		   failed = EXCLUDED.failed,
		   concurrent_avg_ms = EXCLUDED.concurrent_avg_ms,
		   report = EXCLUDED.report,
		   saved_at = now()`,
		sum.RunID, sum.Timestamp.UTC(), sum.BaseURL, sum.TotalRequests, sum.Failed, sum.ConcurrentAvgMS, string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	s.log.Debug("run_saved", zap.String("run_id", sum.RunID))
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	// LIMIT NULL is LIMIT ALL
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, started_at, base_url, total_requests, failed, concurrent_avg_ms
		   FROM runs
		  ORDER BY started_at DESC, saved_at DESC
		  LIMIT $1`, lim)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []domain.RunSummary{}
	for rows.Next() {
		var sum domain.RunSummary
		if err := rows.Scan(&sum.RunID, &sum.Timestamp, &sum.BaseURL, &sum.TotalRequests, &sum.Failed, &sum.ConcurrentAvgMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, runID string) (*domain.RunReport, error) {
	return s.one(ctx, `SELECT report FROM runs WHERE run_id = $1`, runID)
}

func (s *Store) Latest(ctx context.Context) (*domain.RunReport, error) {
	return s.one(ctx, `SELECT report FROM runs ORDER BY started_at DESC, saved_at DESC LIMIT 1`)
}

func (s *Store) one(ctx context.Context, q string, args ...any) (*domain.RunReport, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, q, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	var r domain.RunReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
