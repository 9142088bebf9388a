package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/stats"
)

// TimeEndpoint issues k sequential GETs against path.
//
// Transport errors count as failed and are not timed. Completed round trips
// are timed whatever their status; a status >= 400 additionally counts as
// failed. The request delay follows every completed round trip.
func (r *Runner) TimeEndpoint(ctx context.Context, path string, k int) domain.EndpointStats {
	target := r.Config.URL(path)
	times := make([]float64, 0, k)
	codes := make([]int, 0, k)
	successful, failed := 0, 0

	for i := 0; i < k; i++ {
		attempt := fmt.Sprintf("%d/%d", i+1, k)
		resp := r.Timing.Fetch(ctx, target)
		if !resp.Success {
			failed++
			r.Logger.Warn("request_failed",
				zap.String("endpoint", path),
				zap.String("attempt", attempt),
				zap.String("error", resp.Error),
			)
			continue
		}

		times = append(times, resp.ElapsedMS)
		codes = append(codes, resp.StatusCode)
		if resp.StatusOK() {
			successful++
		} else {
			failed++
		}
		r.Logger.Info("request_done",
			zap.String("endpoint", path),
			zap.String("attempt", attempt),
			zap.Float64("ms", stats.Round2(resp.ElapsedMS)),
			zap.Int("status", resp.StatusCode),
		)

		sleep(ctx, r.Config.RequestDelay)
	}

	es := domain.EndpointStats{
		Endpoint:      path,
		TotalRequests: k,
		Successful:    successful,
		Failed:        failed,
	}
	if !applySummary(&es, times) {
		es.Error = domain.AllRequestsFailed
	} else {
		es.StatusCodes = codes
	}
	r.logStats("endpoint_summary", es)
	return es
}

// applySummary fills the timing fields; false when times is empty.
func applySummary(es *domain.EndpointStats, times []float64) bool {
	sum, ok := stats.Summarize(times)
	if !ok {
		return false
	}
	es.MinMS = round(sum.Min)
	es.MaxMS = round(sum.Max)
	es.AvgMS = round(sum.Mean)
	es.MedianMS = round(sum.Median)
	if sum.StdDev != nil {
		es.StdDevMS = round(*sum.StdDev)
	}
	return true
}

func round(v float64) *float64 {
	r := stats.Round2(v)
	return &r
}

func (r *Runner) logStats(event string, es domain.EndpointStats) {
	fields := []zap.Field{
		zap.String("endpoint", es.Endpoint),
		zap.Int("total", es.TotalRequests),
		zap.Int("successful", es.Successful),
		zap.Int("failed", es.Failed),
	}
	if es.Error != "" {
		r.Logger.Warn(event, append(fields, zap.String("error", es.Error))...)
		return
	}
	fields = append(fields,
		zap.Float64p("min_ms", es.MinMS),
		zap.Float64p("max_ms", es.MaxMS),
		zap.Float64p("avg_ms", es.AvgMS),
		zap.Float64p("median_ms", es.MedianMS),
		zap.Float64p("std_dev_ms", es.StdDevMS),
	)
	r.Logger.Info(event, fields...)
}
