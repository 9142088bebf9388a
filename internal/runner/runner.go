// Package runner drives one probe run: sequential timing, asset and API
// inspection, and the concurrent round test, collected into a RunReport.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/config"
	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/probe"
)

type Runner struct {
	Logger *zap.Logger
	Config config.Config

	// Timing serves the sequential and concurrent phases, Inspect the asset
	// and API phases. They differ only in timeout.
	Timing  probe.Fetcher
	Inspect probe.Fetcher

	Resolve func(ctx context.Context, host string) domain.DNSStatus
	Now     func() time.Time
	NewID   func() string
}

// New wires a Runner with real HTTP clients built from cfg.
func New(logger *zap.Logger, cfg config.Config) *Runner {
	return NewWithFetchers(logger, cfg,
		probe.NewHTTPChecker(cfg.TimingTimeout, cfg.InsecureSkipVerify, cfg.KeepAlive),
		probe.NewHTTPChecker(cfg.InspectTimeout, cfg.InsecureSkipVerify, cfg.KeepAlive),
	)
}

func NewWithFetchers(logger *zap.Logger, cfg config.Config, timing, inspect probe.Fetcher) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Logger:  logger,
		Config:  cfg,
		Timing:  timing,
		Inspect: inspect,
		Resolve: probe.CheckDNS,
		Now:     func() time.Time { return time.Now() },
		NewID:   func() string { return uuid.NewString() },
	}
}

// Close drops connections the fetchers keep pooled.
func (r *Runner) Close() {
	for _, f := range []probe.Fetcher{r.Timing, r.Inspect} {
		if c, ok := f.(probe.IdleCloser); ok {
			c.CloseIdle()
		}
	}
}

// Run executes every phase in fixed order and returns the report. Request
// failures never stop a run; only context cancellation does, in which case
// the partial report is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context) (*domain.RunReport, error) {
	cfg := r.Config
	endpoints, err := cfg.NamedEndpoints()
	if err != nil {
		return nil, err
	}

	report := domain.NewRunReport(r.NewID(), cfg.BaseURL, r.Now())
	r.Logger.Info("run_start",
		zap.String("run_id", report.RunID),
		zap.String("target", cfg.BaseURL),
		zap.Bool("insecure_skip_verify", cfg.InsecureSkipVerify),
	)

	dns := r.Resolve(ctx, probe.Host(cfg.BaseURL))
	report.TargetDNS = &dns
	r.Logger.Info("dns_check",
		zap.String("domain", dns.Domain),
		zap.String("class", dns.Class),
		zap.Bool("has_a_or_aaaa", dns.HasAOrAAAA),
		zap.Strings("nameservers", dns.Nameservers),
		zap.String("cname", dns.CNAME),
		zap.String("resolver_error", dns.ResolverError),
	)

	r.phase("response_time")
	for _, e := range endpoints {
		report.ResponseTimeTests[e.Name] = r.TimeEndpoint(ctx, e.Path, cfg.RequestCount)
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}

	r.phase("asset_loading")
	report.AssetLoading = r.InspectAssets(ctx, cfg.AssetPaths)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	r.phase("api_response_sizes")
	report.APIResponseSizes = r.InspectAPIs(ctx, cfg.APIPaths)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	r.phase("concurrent")
	cs, _ := r.RunConcurrent(ctx, cfg.ConcurrentEndpoint, cfg.Concurrency, cfg.Rounds)
	report.ConcurrentTests = &cs
	if err := ctx.Err(); err != nil {
		return report, err
	}

	r.Logger.Info("run_done", zap.String("run_id", report.RunID))
	return report, nil
}

func (r *Runner) phase(name string) {
	r.Logger.Info("phase_start", zap.String("phase", name))
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000 // ms
}
