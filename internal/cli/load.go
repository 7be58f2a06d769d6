package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/runform/internal/loadtest"
	"github.com/okian/runform/pkg/logger"
)

func newLoadCommand(flags *rootFlags) *cobra.Command {
	cfg := loadtest.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Drive a running server with generated runs and verify its answers",
		Long: "load posts seeded random runs to /v1/report and /v1/batch, checks each report for internal consistency " +
			"and checks that both endpoints agree on every run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := flags.locale(); err != nil {
				return err
			}
			cfg.Lang = flags.lang
			l, err := logger.New(logger.WithWriter(cmd.ErrOrStderr()), logger.WithLevel(flags.logLevel))
			if err != nil {
				return err
			}
			stats, err := loadtest.Run(cmd.Context(), cfg, l.Named("load"))
			if stats != nil {
				if werr := writeOutput(cmd.OutOrStdout(), flags.pretty, stats); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the runform server")
	f.IntVar(&cfg.Runs, "runs", cfg.Runs, "number of runs to generate")
	f.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "runs per batch request, 0 skips batches")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent clients")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the run generator")
	f.IntVar(&cfg.InvalidEvery, "invalid-every", cfg.InvalidEvery, "make every Nth run invalid, 0 disables")
	f.StringVar(&cfg.OutputFile, "output", "", "write runs and their reports to this JSON file")
	return cmd
}
