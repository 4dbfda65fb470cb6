package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/agegap/internal/probe"
)

func (c *cli) probeCmd() *cobra.Command {
	cfg := probe.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Verify a running dashboard server.",
		Long: `Check a running server end to end: lookups, figure shape, aggregate
invariants over random age/country selections, table filtering, export and
PNG snapshots. Exits non-zero when any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, err := probe.Run(cmd.Context(), cfg, c.out, c.log)
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the server")
	cmd.Flags().IntVar(&cfg.Samples, "samples", cfg.Samples, "random selections to check")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent checks")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the random selections")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "print passing checks too")
	return cmd
}
