package repo

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/repo/memory"
	"github.com/hamed0406/perfprobe/internal/repo/postgres"
	"github.com/hamed0406/perfprobe/internal/repo/sqlite"
)

var (
	_ ReportStore = (*memory.Store)(nil)
	_ ReportStore = (*sqlite.Store)(nil)
	_ ReportStore = (*postgres.Store)(nil)
)

// Open picks a history store from dsn: empty or "memory" keeps runs in
// process, postgres:// and postgresql:// URLs use Postgres, anything else is
// a SQLite database file. Schemas are created as needed.
func Open(ctx context.Context, dsn string, log *zap.Logger) (ReportStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch {
	case dsn == "" || dsn == "memory":
		log.Debug("history_store", zap.String("kind", "memory"))
		return memory.New(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err := postgres.New(ctx, dsn, log)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Debug("history_store", zap.String("kind", "postgres"))
		return s, nil
	default:
		s, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Debug("history_store", zap.String("kind", "sqlite"), zap.String("path", dsn))
		return s, nil
	}
}
