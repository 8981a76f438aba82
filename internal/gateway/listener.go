package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// maxHeaderBytes bounds request header size.
const maxHeaderBytes = 1 << 20

// Listener represents an HTTP listener.
type Listener struct {
	config  config.Listener
	server  *http.Server
	handler http.Handler
	logger  observability.Logger
	running atomic.Bool

	mu   sync.RWMutex
	addr string
}

// ListenerOption is a functional option for configuring a listener.
type ListenerOption func(*Listener)

// WithListenerLogger sets the logger for the listener.
func WithListenerLogger(logger observability.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = logger
	}
}

// NewListener creates a new listener.
func NewListener(
	cfg config.Listener,
	handler http.Handler,
	opts ...ListenerOption,
) (*Listener, error) {
	if handler == nil {
		return nil, errors.New("listener handler is required")
	}

	l := &Listener{
		config:  cfg,
		handler: handler,
		logger:  observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Name returns the listener name.
func (l *Listener) Name() string {
	return l.config.Name
}

// Address returns the configured listen address.
func (l *Listener) Address() string {
	bind := l.config.Bind
	if bind == "" {
		bind = config.DefaultBind
	}
	return net.JoinHostPort(bind, strconv.Itoa(l.config.Port))
}

// Addr returns the bound address once started. With port 0 this
// includes the port chosen by the system.
func (l *Listener) Addr() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.addr
}

// Start starts the listener.
func (l *Listener) Start(ctx context.Context) error {
	if l.running.Load() {
		return fmt.Errorf("listener %s is already running", l.config.Name)
	}

	addr := l.Address()

	l.server = &http.Server{
		Addr:              addr,
		Handler:           l.handler,
		ReadTimeout:       l.config.ReadTimeout.Duration(),
		ReadHeaderTimeout: l.config.ReadHeaderTimeout.Duration(),
		WriteTimeout:      l.config.WriteTimeout.Duration(),
		IdleTimeout:       l.config.IdleTimeout.Duration(),
		MaxHeaderBytes:    maxHeaderBytes,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	l.mu.Lock()
	l.addr = ln.Addr().String()
	l.mu.Unlock()

	l.running.Store(true)

	l.logger.Info("listener started",
		observability.String("name", l.config.Name),
		observability.String("address", l.Addr()),
	)

	go l.serve(ln)

	return nil
}

func (l *Listener) serve(ln net.Listener) {
	if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.logger.Error("listener error",
			observability.String("name", l.config.Name),
			observability.Error(err),
		)
	}
	l.running.Store(false)
}

// Stop stops the listener gracefully.
func (l *Listener) Stop(ctx context.Context) error {
	if !l.running.Load() {
		return nil
	}

	l.logger.Info("stopping listener",
		observability.String("name", l.config.Name),
	)

	if err := l.server.Shutdown(ctx); err != nil {
		if closeErr := l.server.Close(); closeErr != nil {
			return fmt.Errorf("failed to close listener: %w", closeErr)
		}
		return fmt.Errorf("failed to shutdown listener gracefully: %w", err)
	}

	l.running.Store(false)

	l.logger.Info("listener stopped",
		observability.String("name", l.config.Name),
	)

	return nil
}

// IsRunning returns true if the listener is running.
func (l *Listener) IsRunning() bool {
	return l.running.Load()
}
