package main

import (
	"context"
	"os"

	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// startConfigWatcher watches the configuration file and reloads the
// gateway's routing state on every valid change. It returns nil when
// the watcher cannot be started; the gateway keeps running with the
// configuration it has.
func startConfigWatcher(ctx context.Context, app *application, configPath string) *config.Watcher {
	logger := app.logger

	watcher, err := config.NewWatcher(configPath, func(cfg *config.GatewayConfig) {
		reloadGateway(app, cfg)
	},
		config.WithLogger(logger),
		config.WithErrorCallback(func(err error) {
			logger.Error("configuration reload failed; keeping current configuration",
				observability.Error(err),
			)
		}),
	)
	if err != nil {
		logger.Error("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(ctx); err != nil {
		logger.Error("failed to start config watcher", observability.Error(err))
		_ = watcher.Stop()
		return nil
	}

	logger.Info("watching configuration for changes",
		observability.String("path", watcher.Path()),
	)
	return watcher
}

func reloadGateway(app *application, cfg *config.GatewayConfig) {
	if err := app.gateway.Reload(cfg); err != nil {
		app.logger.Error("failed to apply reloaded configuration",
			observability.Error(err),
		)
	}
}

// reloadOnHangup re-reads the configuration file each time a signal
// arrives on hup, until ctx ends.
func reloadOnHangup(ctx context.Context, logger observability.Logger, hup <-chan os.Signal, reload func() error) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-hup:
			logger.Info("reloading configuration on signal",
				observability.String("signal", sig.String()),
			)
			if err := reload(); err != nil {
				logger.Error("configuration reload failed; keeping current configuration",
					observability.Error(err),
				)
			}
		}
	}
}
