package gateway

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/vyrodovalexey/poolgw/internal/backend"
	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/health"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// DefaultVersion is reported by the info endpoint when no build version
// is set.
const DefaultVersion = "dev"

// State represents the gateway state.
type State int32

const (
	// StateStopped indicates the gateway is stopped.
	StateStopped State = iota
	// StateStarting indicates the gateway is starting.
	StateStarting
	// StateRunning indicates the gateway is running.
	StateRunning
	// StateStopping indicates the gateway is stopping.
	StateStopping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Gateway is the load-balancing reverse proxy.
type Gateway struct {
	// static is the configuration the gateway was built with. Listener,
	// middleware and observability settings are taken from it only.
	static *config.GatewayConfig

	logger   observability.Logger
	clock    clockwork.Clock
	metrics  *observability.Metrics
	tracer   *observability.Tracer
	version  string
	connPool *backend.ConnectionPool

	snap     atomic.Pointer[snapshot]
	reloadMu sync.Mutex

	engine      *gin.Engine
	handler     http.Handler
	metricsPath string
	listener    atomic.Pointer[Listener]
	state       atomic.Int32
	startTime   time.Time
}

// Option is a functional option for configuring the gateway.
type Option func(*Gateway)

// WithLogger sets the logger for the gateway and its components.
func WithLogger(logger observability.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithClock sets the clock used for uptime and timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(g *Gateway) {
		g.clock = clock
	}
}

// WithMetrics enables request metrics, pool health gauges and the
// metrics endpoint.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = metrics
	}
}

// WithTracer sets the tracer for server and client spans.
func WithTracer(tracer *observability.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = tracer
	}
}

// WithVersion sets the version reported by the info endpoint.
func WithVersion(version string) Option {
	return func(g *Gateway) {
		g.version = version
	}
}

// WithConnectionPool sets the shared upstream connection pool.
func WithConnectionPool(pool *backend.ConnectionPool) Option {
	return func(g *Gateway) {
		g.connPool = pool
	}
}

// New creates a new Gateway from a configuration. The configuration is
// validated first.
func New(cfg *config.GatewayConfig, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	g := &Gateway{
		static:  cfg,
		logger:  observability.NopLogger(),
		clock:   clockwork.NewRealClock(),
		tracer:  observability.NoopTracer(),
		version: DefaultVersion,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.connPool == nil {
		g.connPool = backend.NewConnectionPool(backend.PoolConfigFromConfig(cfg.Spec.ConnectionPool))
	}

	snap, err := g.buildSnapshot(cfg, nil)
	if err != nil {
		return nil, err
	}
	g.snap.Store(snap)

	if g.metrics != nil && cfg.Spec.Observability.Metrics.Enabled {
		g.metricsPath = cfg.Spec.Observability.Metrics.Path
	}

	gin.SetMode(gin.ReleaseMode)
	g.engine = gin.New()
	g.setupRoutes()
	g.handler = g.buildHandler()

	g.startTime = g.clock.Now()
	g.state.Store(int32(StateStopped))

	logServices(g.logger, cfg)

	return g, nil
}

// Start starts serving on the configured listener.
func (g *Gateway) Start(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateStopped), int32(StateStarting)) {
		return ErrGatewayNotStopped
	}

	g.logger.Info("starting gateway",
		observability.String("name", g.static.Metadata.Name),
	)

	listener, err := NewListener(g.static.Spec.Listener, g.handler, WithListenerLogger(g.logger))
	if err != nil {
		g.state.Store(int32(StateStopped))
		return fmt.Errorf("failed to create listener: %w", err)
	}

	if err := listener.Start(ctx); err != nil {
		g.state.Store(int32(StateStopped))
		return fmt.Errorf("failed to start listener %s: %w", listener.Name(), err)
	}
	g.listener.Store(listener)

	g.state.Store(int32(StateRunning))

	stats := g.connPool.Stats()
	g.logger.Info("gateway started",
		observability.String("name", g.static.Metadata.Name),
		observability.String("address", listener.Addr()),
		observability.Int("services", g.snap.Load().registry.Len()),
		observability.Int("max_idle_conns", stats.MaxIdleConns),
		observability.Int("max_idle_conns_per_host", stats.MaxIdleConnsPerHost),
		observability.Int("max_conns_per_host", stats.MaxConnsPerHost),
	)

	return nil
}

// Stop stops the gateway gracefully. In-flight requests are drained
// until ctx ends or the listener shutdown timeout elapses.
func (g *Gateway) Stop(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return ErrGatewayNotRunning
	}

	g.logger.Info("stopping gateway",
		observability.String("name", g.static.Metadata.Name),
	)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.static.Spec.Listener.ShutdownTimeout.Duration())
		defer cancel()
	}

	var stopErr error
	if listener := g.listener.Load(); listener != nil {
		stopErr = listener.Stop(ctx)
	}
	g.connPool.CloseIdleConnections()

	g.state.Store(int32(StateStopped))

	g.logger.Info("gateway stopped",
		observability.String("name", g.static.Metadata.Name),
	)

	return stopErr
}

// Reload validates cfg and atomically replaces the service registry and
// route table. Pools whose instance list is unchanged keep their cursor.
// Listener, middleware, connection pool and observability settings are
// fixed at construction; changes to them are logged and ignored.
func (g *Gateway) Reload(cfg *config.GatewayConfig) error {
	if cfg == nil {
		return ErrNilConfig
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	g.reloadMu.Lock()
	defer g.reloadMu.Unlock()

	g.logger.Info("reloading gateway configuration",
		observability.String("name", cfg.Metadata.Name),
	)

	g.warnStaticChanges(cfg)

	next, err := g.buildSnapshot(cfg, g.snap.Load())
	if err != nil {
		return err
	}
	g.snap.Store(next)

	logServices(g.logger, cfg)
	g.logger.Info("gateway configuration reloaded",
		observability.String("name", cfg.Metadata.Name),
		observability.Int("services", next.registry.Len()),
	)

	return nil
}

func (g *Gateway) warnStaticChanges(cfg *config.GatewayConfig) {
	old := &g.static.Spec
	spec := &cfg.Spec

	changed := map[string]bool{
		"listener":       !reflect.DeepEqual(old.Listener, spec.Listener),
		"cors":           !reflect.DeepEqual(old.CORS, spec.CORS),
		"compression":    !reflect.DeepEqual(old.Compression, spec.Compression),
		"connectionPool": !reflect.DeepEqual(old.ConnectionPool, spec.ConnectionPool),
		"observability":  !reflect.DeepEqual(old.Observability, spec.Observability),
	}
	for section, diff := range changed {
		if diff {
			g.logger.Warn("configuration section changed but requires a restart to apply",
				observability.String("section", section),
			)
		}
	}
}

// CheckHealth runs one aggregate health pass over the current pools.
func (g *Gateway) CheckHealth(ctx context.Context) health.Report {
	snap := g.snap.Load()
	return snap.aggregator.Check(ctx, snap.registry)
}

// State returns the current gateway state.
func (g *Gateway) State() State {
	return State(g.state.Load())
}

// IsRunning returns true if the gateway is running.
func (g *Gateway) IsRunning() bool {
	return g.State() == StateRunning
}

// Uptime returns the time since the gateway was created.
func (g *Gateway) Uptime() time.Duration {
	return g.clock.Since(g.startTime)
}

// Config returns the configuration currently used for routing.
func (g *Gateway) Config() *config.GatewayConfig {
	return g.snap.Load().config
}

// Registry returns the current service registry.
func (g *Gateway) Registry() *backend.Registry {
	return g.snap.Load().registry
}

// Handler returns the complete HTTP handler including middleware.
func (g *Gateway) Handler() http.Handler {
	return g.handler
}

// Engine returns the gin engine.
func (g *Gateway) Engine() *gin.Engine {
	return g.engine
}

// Addr returns the bound listener address, or "" before the first Start.
// It is safe to call from any goroutine.
func (g *Gateway) Addr() string {
	listener := g.listener.Load()
	if listener == nil {
		return ""
	}
	return listener.Addr()
}
