// Package preflight checks a configuration before a run: it validates the
// settings, resolves the target and opens the history store.
package preflight

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/config"
	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/probe"
	"github.com/hamed0406/perfprobe/internal/repo"
)

// Checker prints one ✔/⚠/✖ line per check.
type Checker struct {
	Out     io.Writer
	Resolve func(ctx context.Context, host string) domain.DNSStatus
	// OpenStore is repo.Open unless replaced in tests.
	OpenStore func(ctx context.Context, dsn string, log *zap.Logger) (repo.ReportStore, error)

	failures int
	warnings int
}

func New(out io.Writer) *Checker {
	return &Checker{Out: out, Resolve: probe.CheckDNS, OpenStore: repo.Open}
}

// Result counts the outcome of Run.
type Result struct {
	Failures int
	Warnings int
}

func (r Result) OK() bool { return r.Failures == 0 }

// Run checks cfg. Hard failures are an invalid configuration or a history
// store that cannot be opened; everything else only warns.
func (c *Checker) Run(ctx context.Context, cfg config.Config) Result {
	c.failures, c.warnings = 0, 0

	if err := cfg.Validate(); err != nil {
		c.fail("configuration invalid: %v", err)
		return c.result()
	}
	c.ok("configuration valid")
	c.ok("target %s", cfg.BaseURL)

	dns := c.Resolve(ctx, probe.Host(cfg.BaseURL))
	if dns.Class == probe.DNSResolves {
		c.ok("DNS %s resolves (%d addresses)", dns.Domain, len(dns.IPs))
	} else {
		msg := dns.Class
		if dns.ResolverError != "" {
			msg += ": " + dns.ResolverError
		}
		c.warn("DNS %s does not resolve cleanly (%s); every request may fail", dns.Domain, msg)
	}

	if cfg.InsecureSkipVerify {
		c.warn("TLS certificate verification is disabled")
	}

	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
			c.fail("output directory %s is a file", dir)
		}
	}
	c.ok("report goes to %s", cfg.OutputPath)

	if cfg.HistoryDSN == "" {
		c.warn("HISTORY_DSN empty; runs are not kept between invocations")
	} else if store, err := c.OpenStore(ctx, cfg.HistoryDSN, zap.NewNop()); err != nil {
		c.fail("history store unavailable: %v", err)
	} else {
		_ = store.Close()
		c.ok("history store reachable")
	}

	if cfg.SlackWebhook == "" {
		c.warn("SLACK_WEBHOOK_URL empty; no run notifications")
	} else {
		c.ok("Slack notifications enabled")
	}

	if len(cfg.APIKeys) == 0 {
		c.warn("API_KEYS empty; the history API is open to anyone who can reach it")
	}

	if c.failures == 0 {
		c.ok("preflight passed")
	}
	return c.result()
}

func (c *Checker) result() Result {
	return Result{Failures: c.failures, Warnings: c.warnings}
}

func (c *Checker) ok(format string, args ...any) {
	fmt.Fprintln(c.Out, "✔", fmt.Sprintf(format, args...))
}

func (c *Checker) warn(format string, args ...any) {
	c.warnings++
	fmt.Fprintln(c.Out, "⚠", fmt.Sprintf(format, args...))
}

func (c *Checker) fail(format string, args ...any) {
	c.failures++
	fmt.Fprintln(c.Out, "✖", fmt.Sprintf(format, args...))
}
