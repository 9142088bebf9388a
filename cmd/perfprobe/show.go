package main

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/perfprobe/internal/domain"
	"github.com/hamed0406/perfprobe/internal/report"
)

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show RUN_ID|latest",
		Short: "Print a stored run report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().Bool("markdown", false, "Print the Markdown summary instead of JSON")
	addSourceFlags(cmd)
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	src, closeFn, err := openSource(cmd.Context(), cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	var rep *domain.RunReport
	if args[0] == "latest" {
		rep, err = src.Latest(cmd.Context())
	} else {
		rep, err = src.Get(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}

	var w report.Writer = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	if md, _ := cmd.Flags().GetBool("markdown"); md {
		w = report.NewMarkdownWriter(cmd.OutOrStdout())
	}
	_, err = w.Write(rep)
	return err
}
