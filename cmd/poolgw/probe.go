package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/poolgw/internal/gateway"
)

// defaultProbeTimeout bounds a whole probe pass.
const defaultProbeTimeout = 10 * time.Second

func newProbeCmd(flags *rootFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe every configured pool once",
		Long: `Run one aggregate health pass against the pools in the configuration
file and print the result as JSON, in the same shape as GET /health.
Exits with status 1 when any pool has no healthy instance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}

			logger, err := newLogger(flags, cfg, "stderr")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			gw, err := gateway.New(cfg, gateway.WithLogger(logger), gateway.WithVersion(Version))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			report := gw.CheckHealth(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}

			if !report.Healthy() {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultProbeTimeout, "Upper bound for the whole probe pass")

	return cmd
}
