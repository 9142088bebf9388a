package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hamed0406/perfprobe/internal/preflight"
)

func NewPreflightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check configuration, DNS and the history store before a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			if res := preflight.New(cmd.OutOrStdout()).Run(cmd.Context(), cfg); !res.OK() {
				return errors.New("preflight failed")
			}
			return nil
		},
	}
}
