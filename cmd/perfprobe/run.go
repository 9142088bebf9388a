package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/config"
	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/logging"
	"github.com/hamed0406/perfprobe/internal/notify"
	"github.com/hamed0406/perfprobe/internal/repo"
	"github.com/hamed0406/perfprobe/internal/report"
	"github.com/hamed0406/perfprobe/internal/runner"
	"github.com/hamed0406/perfprobe/internal/scheduler"
)

// sinkTimeout bounds the optional outputs after a run, which may happen
// after the run context was cancelled.
const sinkTimeout = 15 * time.Second

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every probe phase and write the JSON report",
		Long: `Run times each configured endpoint sequentially, inspects assets and API
endpoints, then fires rounds of concurrent requests. The report is written
to --output, replacing any existing file.

Examples:
  # Probe the default target
  perfprobe run

  # Probe another deployment with more samples
  perfprobe run -u https://staging.example.com -n 25 --concurrency 10

  # Keep history and write a Markdown summary as well
  perfprobe run --history runs.db -m summary.md

  # Probe every 15 minutes, keeping each run in history
  perfprobe run --every 15m --history runs.db`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("base-url", "u", config.DefaultBaseURL, "Target base URL")
	cmd.Flags().IntP("requests", "n", config.DefaultRequestCount,
		"Sequential requests per endpoint")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Simultaneous requests per concurrent round")
	cmd.Flags().Int("rounds", config.DefaultRounds, "Concurrent rounds")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"JSON report path (directories are created)")
	cmd.Flags().StringP("markdown", "m", "", "Also write a Markdown summary to this path")
	cmd.Flags().Bool("insecure", true, "Skip TLS certificate verification")
	cmd.Flags().Duration("every", 0, "Repeat the run on this interval until interrupted (0 runs once)")
	cmd.Flags().Int("times", 0, "Stop after this many repeated runs (0 is unlimited)")
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	out := cmd.OutOrStdout()
	logger, err := logging.NewLogger(cfg.LogDir, out, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Every <= 0 {
		return runOnce(ctx, logger, cfg, out)
	}
	sched := scheduler.NewRepeater(logger, cfg.Every, cfg.Times)
	return sched.Run(ctx, func(ctx context.Context, n int) error {
		logger.Info("scheduled_run", zap.Int("run", n), zap.Duration("every", cfg.Every))
		return runOnce(ctx, logger, cfg, out)
	})
}

// runOnce performs one probe run, writes its report and feeds the sinks.
func runOnce(ctx context.Context, logger *zap.Logger, cfg config.Config, out io.Writer) error {
	r := runner.New(logger, cfg)
	defer r.Close()

	rep, runErr := r.Run(ctx)
	if rep == nil {
		return runErr
	}

	// A partial report from an interrupted run is still written.
	if err := report.WriteFile(cfg.OutputPath, rep); err != nil {
		logger.Error("report_write_failed", zap.String("path", cfg.OutputPath), zap.Error(err))
		return err
	}
	logger.Info("report_written", zap.String("path", cfg.OutputPath), zap.String("run_id", rep.RunID))

	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := publish(sinkCtx, logger, cfg, rep); err != nil {
		for _, e := range multierr.Errors(err) {
			logger.Warn("sink_failed", zap.Error(e))
		}
	}

	printSummary(out, cfg, rep)

	if errors.Is(runErr, context.Canceled) {
		return errors.New("run interrupted; partial report written")
	}
	return runErr
}

// publish feeds the optional sinks. Their failures are joined and never
// stop the others.
func publish(ctx context.Context, logger *zap.Logger, cfg config.Config, rep *domain.RunReport) error {
	var errs error

	if cfg.MarkdownPath != "" {
		if err := report.WriteMarkdownFile(cfg.MarkdownPath, rep); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			logger.Info("report_written", zap.String("path", cfg.MarkdownPath), zap.String("format", "markdown"))
		}
	}

	var previous *domain.RunSummary
	if cfg.HistoryDSN != "" {
		prev, err := saveHistory(ctx, logger, cfg.HistoryDSN, rep)
		errs = multierr.Append(errs, err)
		previous = prev
	}

	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		title, text := notify.RunMessage(rep, previous)
		if err := (notify.Multi{slack}).Send(ctx, title, text); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("notify: %w", err))
		} else {
			logger.Info("notification_sent", zap.String("title", title))
		}
	}
	return errs
}

// saveHistory stores rep and returns the summary of the run before it.
func saveHistory(ctx context.Context, logger *zap.Logger, dsn string, rep *domain.RunReport) (prev *domain.RunSummary, err error) {
	store, err := repo.Open(ctx, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	if last, err := store.List(ctx, 1); err == nil && len(last) == 1 && last[0].RunID != rep.RunID {
		prev = &last[0]
	}
	if err := store.Save(ctx, rep); err != nil {
		return prev, fmt.Errorf("history: %w", err)
	}
	logger.Info("run_saved", zap.String("run_id", rep.RunID))
	return prev, nil
}

func printSummary(w io.Writer, cfg config.Config, rep *domain.RunReport) {
	s := rep.Summary()
	fmt.Fprintf(w, "\nRun %s against %s\n", rep.RunID, rep.BaseURL)

	names := make([]string, 0, len(rep.ResponseTimeTests))
	for name := range rep.ResponseTimeTests {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-14s %s\n", name, describe(rep.ResponseTimeTests[name]))
	}
	if c := rep.ConcurrentTests; c != nil {
		fmt.Fprintf(w, "  %-14s %s\n", fmt.Sprintf("concurrent x%d", c.ConcurrentLevel), describe(c.EndpointStats))
	}

	var bytes int
	for _, a := range rep.AssetLoading {
		if a.AssetInfo != nil {
			bytes += a.SizeBytes
		}
	}
	fmt.Fprintf(w, "  assets         %d checked, %s total\n", len(rep.AssetLoading), humanize.Bytes(uint64(bytes)))
	fmt.Fprintf(w, "  requests       %s sent, %s failed\n", humanize.Comma(int64(s.TotalRequests)), humanize.Comma(int64(s.Failed)))
	fmt.Fprintf(w, "Report: %s\n", cfg.OutputPath)
}

func describe(es domain.EndpointStats) string {
	if es.AvgMS == nil {
		return fmt.Sprintf("%s (%d/%d)", es.Error, es.Failed, es.TotalRequests)
	}
	return fmt.Sprintf("avg %.2f ms, median %.2f ms, max %.2f ms (%d ok, %d failed)",
		*es.AvgMS, *es.MedianMS, *es.MaxMS, es.Successful, es.Failed)
}
