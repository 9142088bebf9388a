package repo

import (
	"context"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// ErrNotFound is returned by Get and Latest when no run matches.
var ErrNotFound = domain.ErrNotFound

// List limits applied by callers before querying a store.
const (
	DefaultListLimit = 20
	MaxListLimit     = 500
)

// ReportStore keeps the history of probe runs. Adapters treat a limit <= 0
// as no limit; use ClampLimit for user input.
type ReportStore interface {
	Save(ctx context.Context, r *domain.RunReport) error
	// List returns summaries newest first.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Get(ctx context.Context, runID string) (*domain.RunReport, error)
	Latest(ctx context.Context) (*domain.RunReport, error)
	Close() error
}

// ClampLimit maps user input onto [1, MaxListLimit], using the default for
// non-positive values.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultListLimit
	case n > MaxListLimit:
		return MaxListLimit
	default:
		return n
	}
}
