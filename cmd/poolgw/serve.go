package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/poolgw/internal/observability"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway",
		Long: `Run the gateway on the configured listener until SIGINT or SIGTERM.

On a signal the gateway stops accepting connections and drains in-flight
requests for up to listener.shutdownTimeout.

With --watch (the default) changes to the configuration file replace the
service pools and routes without a restart, and SIGHUP forces a reload.
Listener, middleware and observability settings apply only on restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags, watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true, "Reload service pools when the configuration file changes")

	return cmd
}

func runServe(ctx context.Context, flags *rootFlags, watch bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, configPath, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(flags, cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting poolgw",
		observability.String("version", Version),
		observability.String("config", configPath),
		observability.Int("services", len(cfg.Spec.Services)),
	)

	app, err := newApplication(cfg, logger)
	if err != nil {
		return err
	}

	if err := app.gateway.Start(ctx); err != nil {
		return fmt.Errorf("failed to start gateway: %w", err)
	}

	ctx, stop := signalContext(ctx)
	defer stop()

	var watcherStop func() error
	if watch {
		if w := startConfigWatcher(ctx, app, configPath); w != nil {
			watcherStop = w.Stop

			hup, stopHangup := hangupSignals()
			defer stopHangup()
			go reloadOnHangup(ctx, logger, hup, w.ForceReload)
		}
	}

	<-ctx.Done()
	logger.Info("received shutdown signal")

	return shutdown(app, watcherStop)
}
