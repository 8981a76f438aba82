package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// hangupSignals delivers SIGHUP on the returned channel until stop is
// called.
func hangupSignals() (hup <-chan os.Signal, stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	return ch, func() { signal.Stop(ch) }
}

// shutdown stops the watcher, drains the gateway and flushes traces.
func shutdown(app *application, stopWatcher func() error) error {
	logger := app.logger

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		app.config.Spec.Listener.ShutdownTimeout.Duration())
	defer cancel()

	if stopWatcher != nil {
		if err := stopWatcher(); err != nil {
			logger.Warn("failed to stop config watcher", observability.Error(err))
		}
	}

	gwErr := app.gateway.Stop(shutdownCtx)
	if gwErr != nil {
		logger.Error("failed to stop gateway gracefully", observability.Error(gwErr))
	}

	if err := app.tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	logger.Info("gateway stopped")
	return gwErr
}
