// Package scheduler repeats probe runs on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job is one scheduled run; n counts from 1.
type Job func(ctx context.Context, n int) error

type Repeater struct {
	Logger   *zap.Logger
	Interval time.Duration
	// Times caps the number of runs; 0 repeats until ctx is cancelled.
	Times int
}

func NewRepeater(logger *zap.Logger, interval time.Duration, times int) *Repeater {
	if logger == nil {
		logger = zap.NewNop()
	}
	if times < 0 {
		times = 0
	}
	return &Repeater{Logger: logger, Interval: interval, Times: times}
}

// Run starts the loop. It does an immediate run, then one per tick; a run
// that overlaps a tick delays the next one rather than stacking. Failed
// runs are logged and the loop continues. With no interval the job runs
// once and its error is returned. Cancellation ends the loop with nil.
func (r *Repeater) Run(ctx context.Context, job Job) error {
	if r.Interval <= 0 {
		return job(ctx, 1)
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	for n := 1; ; n++ {
		if err := job(ctx, n); err != nil {
			if ctx.Err() != nil {
				r.Logger.Info("scheduler_stopped", zap.Int("runs", n))
				return nil
			}
			r.Logger.Warn("scheduled_run_failed", zap.Int("run", n), zap.Error(err))
		}
		if r.Times > 0 && n >= r.Times {
			r.Logger.Info("scheduler_done", zap.Int("runs", n))
			return nil
		}

		r.Logger.Info("scheduler_waiting", zap.Int("next_run", n+1), zap.Duration("interval", r.Interval))
		select {
		case <-ctx.Done():
			r.Logger.Info("scheduler_stopped", zap.Int("runs", n))
			return nil
		case <-t.C:
		}
	}
}
