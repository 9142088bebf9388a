package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/config"
	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/httpapi"
	"github.com/hamed0406/perfprobe/internal/repo"
)

var errNoHistory = errors.New("no history store configured (use --history, HISTORY_DSN or --api)")

// historySource is what history and show read from: a store opened
// locally or a remote history API.
type historySource interface {
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Get(ctx context.Context, runID string) (*domain.RunReport, error)
	Latest(ctx context.Context) (*domain.RunReport, error)
}

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().Int("limit", repo.DefaultListLimit, "Maximum runs to list")
	addSourceFlags(cmd)
	return cmd
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("api", "", "Read from a history API at this base URL instead of a store")
	cmd.Flags().String("api-key", "", "Key for --api (default: first of API_KEYS)")
}

// openSource returns the history to read and a func to release it.
func openSource(ctx context.Context, cmd *cobra.Command, cfg config.Config) (historySource, func(), error) {
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		key, _ := cmd.Flags().GetString("api-key")
		if key == "" && len(cfg.APIKeys) > 0 {
			key = cfg.APIKeys[0]
		}
		return httpapi.NewClient(api, key), func() {}, nil
	}
	if cfg.HistoryDSN == "" {
		return nil, nil, errNoHistory
	}
	store, err := repo.Open(ctx, cfg.HistoryDSN, zap.NewNop())
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	src, closeFn, err := openSource(cmd.Context(), cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := src.List(cmd.Context(), repo.ClampLimit(limit))
	if err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), runs)
}

func writeHistory(w io.Writer, runs []domain.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs stored yet.")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		avg := "-"
		if r.ConcurrentAvgMS != nil {
			avg = strconv.FormatFloat(*r.ConcurrentAvgMS, 'f', 2, 64) + " ms"
		}
		rows = append(rows, []string{
			r.RunID,
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(r.Timestamp),
			r.BaseURL,
			humanize.Comma(int64(r.TotalRequests)),
			humanize.Comma(int64(r.Failed)),
			avg,
		})
	}
	md := markdown.NewMarkdown(w)
	md.Table(markdown.TableSet{
		Header: []string{"Run ID", "Started", "Age", "Target", "Requests", "Failed", "Concurrent avg"},
		Rows:   rows,
	})
	return md.Build()
}
