package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamed0406/perfprobe/internal/config"
)

// NewRootCmd builds the command tree. Without a subcommand it runs the probe.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perfprobe",
		Short: "Measure response times and load behaviour of a web deployment",
		Long: `perfprobe times a fixed set of endpoints, inspects static assets and API
responses, fires rounds of concurrent requests, and writes everything it
measured to a JSON report.

Settings come from built-in defaults, then perfprobe.yaml (or --config),
then .env files and PERFPROBE_* environment variables, then flags.`,
		Args:          cobra.NoArgs,
		RunE:          runRunCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" if present)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("history", "",
		"History store: SQLite file path or postgres:// URL (env HISTORY_DSN)")
	addRunFlags(cmd)

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewPreflightCmd())

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig layers explicitly set flags over config.Load.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()
	path, _ := f.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if f.Changed("verbose") {
		cfg.Verbose, _ = f.GetBool("verbose")
	}
	if f.Changed("history") {
		cfg.HistoryDSN, _ = f.GetString("history")
	}
	if f.Lookup("base-url") == nil {
		return cfg, nil
	}
	if f.Changed("base-url") {
		cfg.BaseURL, _ = f.GetString("base-url")
	}
	if f.Changed("requests") {
		cfg.RequestCount, _ = f.GetInt("requests")
	}
	if f.Changed("concurrency") {
		cfg.Concurrency, _ = f.GetInt("concurrency")
	}
	if f.Changed("rounds") {
		cfg.Rounds, _ = f.GetInt("rounds")
	}
	if f.Changed("output") {
		cfg.OutputPath, _ = f.GetString("output")
	}
	if f.Changed("markdown") {
		cfg.MarkdownPath, _ = f.GetString("markdown")
	}
	if f.Changed("every") {
		cfg.Every, _ = f.GetDuration("every")
	}
	if f.Changed("times") {
		cfg.Times, _ = f.GetInt("times")
	}
	if f.Changed("insecure") {
		cfg.InsecureSkipVerify, _ = f.GetBool("insecure")
	}
	return cfg, nil
}
