package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/stats"
)

// RunConcurrent fires c simultaneous GETs against path, rounds times.
//
// Rounds are strictly sequential with the round delay between them. Within
// a round results are collected in completion order and the round ends
// once all c requests have finished. Stats cover every completed request
// of every round; the returned measurements always number c*rounds.
func (r *Runner) RunConcurrent(ctx context.Context, path string, c, rounds int) (domain.ConcurrentStats, []domain.Measurement) {
	target := r.Config.URL(path)
	all := make([]domain.Measurement, 0, c*rounds)
	durations := make([]float64, 0, rounds)

	r.Logger.Info("concurrent_start",
		zap.String("endpoint", path),
		zap.Int("concurrency", c),
		zap.Int("rounds", rounds),
	)

	for round := 0; round < rounds; round++ {
		roundLabel := fmt.Sprintf("%d/%d", round+1, rounds)
		start := time.Now()

		for m := range r.dispatch(ctx, target, path, c) {
			if m.Success {
				r.Logger.Info("request_done",
					zap.String("round", roundLabel),
					zap.Int("request_id", m.RequestID),
					zap.Float64("ms", stats.Round2(m.ElapsedMS)),
					zap.Int("status", m.StatusCode),
				)
			} else {
				r.Logger.Warn("request_failed",
					zap.String("round", roundLabel),
					zap.Int("request_id", m.RequestID),
					zap.String("error", m.Error),
				)
			}
			all = append(all, m)
		}

		d := stats.Round2(sinceMS(start))
		durations = append(durations, d)
		r.Logger.Info("round_done", zap.String("round", roundLabel), zap.Float64("total_ms", d))

		if round < rounds-1 {
			sleep(ctx, r.Config.RoundDelay)
		}
	}

	times := make([]float64, 0, len(all))
	for _, m := range all {
		if m.Success {
			times = append(times, m.ElapsedMS)
		}
	}
	cs := domain.ConcurrentStats{
		EndpointStats: domain.EndpointStats{
			Endpoint:      path,
			TotalRequests: len(all),
			Successful:    len(times),
			Failed:        len(all) - len(times),
		},
		ConcurrentLevel:  c,
		Rounds:           rounds,
		RoundDurationsMS: durations,
	}
	if !applySummary(&cs.EndpointStats, times) {
		cs.Error = domain.AllConcurrentRequestsFailed
	}
	r.logStats("concurrent_summary", cs.EndpointStats)
	return cs, all
}

// dispatch starts one round of c requests on a pool of c workers. The
// channel yields each measurement as its request finishes and is closed
// after the last one.
func (r *Runner) dispatch(ctx context.Context, target, path string, c int) <-chan domain.Measurement {
	results := make(chan domain.Measurement, c)
	var g errgroup.Group
	g.SetLimit(c)

	go func() {
		for id := 0; id < c; id++ {
			g.Go(func() error {
				resp := r.Timing.Fetch(ctx, target)
				m := resp.Measurement
				m.Endpoint = path
				m.RequestID = id
				results <- m
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()
	return results
}
