package health

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vyrodovalexey/poolgw/internal/backend"
	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// Status represents the aggregate health status.
type Status string

const (
	// StatusHealthy indicates every service has a healthy instance.
	StatusHealthy Status = "healthy"
	// StatusDegraded indicates at least one service has none.
	StatusDegraded Status = "degraded"
)

// GatewayOnline is reported for the gateway itself, which is up by
// virtue of answering.
const GatewayOnline = "online"

// Report is the aggregate health response.
type Report struct {
	Status   Status          `json:"status"`
	Gateway  string          `json:"gateway"`
	Services map[string]bool `json:"services"`
}

// Healthy reports whether every service is healthy.
func (r Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// HTTPStatus returns 200 when healthy and 503 otherwise.
func (r Report) HTTPStatus() int {
	if r.Healthy() {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// ServiceHealthRecorder receives per-service health after each check.
type ServiceHealthRecorder interface {
	SetServiceHealth(service string, healthy bool)
}

// Aggregator computes the aggregate health of all pools.
type Aggregator struct {
	prober   backend.Prober
	mode     string
	logger   observability.Logger
	recorder ServiceHealthRecorder
}

// AggregatorOption is a functional option for configuring the aggregator.
type AggregatorOption func(*Aggregator)

// WithMode sets how many instances of a pool are probed.
// config.HealthModeAny stops at the first healthy instance;
// config.HealthModeRepresentative probes only the first instance.
func WithMode(mode string) AggregatorOption {
	return func(a *Aggregator) {
		a.mode = mode
	}
}

// WithAggregatorLogger sets the logger for the aggregator.
func WithAggregatorLogger(logger observability.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithServiceHealthRecorder publishes per-service results, typically to
// the pool health gauge.
func WithServiceHealthRecorder(recorder ServiceHealthRecorder) AggregatorOption {
	return func(a *Aggregator) {
		a.recorder = recorder
	}
}

// NewAggregator creates an aggregator that probes with prober. The
// prober should not cache results.
func NewAggregator(prober backend.Prober, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		prober: prober,
		mode:   config.HealthModeAny,
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check probes every pool in the registry concurrently. It never moves
// a pool's cursor.
func (a *Aggregator) Check(ctx context.Context, registry *backend.Registry) Report {
	start := time.Now()
	pools := registry.Pools()
	results := make([]bool, len(pools))

	g, gctx := errgroup.WithContext(ctx)
	for i, pool := range pools {
		g.Go(func() error {
			results[i] = a.checkPool(gctx, pool)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Status:   StatusHealthy,
		Gateway:  GatewayOnline,
		Services: make(map[string]bool, len(pools)),
	}
	for i, pool := range pools {
		report.Services[pool.Name()] = results[i]
		if !results[i] {
			report.Status = StatusDegraded
		}
		if a.recorder != nil {
			a.recorder.SetServiceHealth(pool.Name(), results[i])
		}
	}

	m := getHealthMetrics()
	m.checksTotal.WithLabelValues(string(report.Status)).Inc()
	m.checkDuration.Observe(time.Since(start).Seconds())

	if !report.Healthy() {
		a.logger.Warn("aggregate health degraded",
			observability.Any("services", report.Services),
		)
	}

	return report
}

func (a *Aggregator) checkPool(ctx context.Context, pool *backend.ServicePool) bool {
	if a.mode == config.HealthModeRepresentative {
		return a.prober.Probe(ctx, pool.Instance(0))
	}
	for _, inst := range pool.Instances() {
		if a.prober.Probe(ctx, inst) {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
	return false
}
