package gateway

import (
	"fmt"

	"github.com/vyrodovalexey/poolgw/internal/backend"
	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/health"
	"github.com/vyrodovalexey/poolgw/internal/observability"
	"github.com/vyrodovalexey/poolgw/internal/proxy"
	"github.com/vyrodovalexey/poolgw/internal/router"
)

// snapshot is the reloadable routing state. It is never mutated after
// construction; the cursors inside its pools are the only moving parts.
type snapshot struct {
	config     *config.GatewayConfig
	registry   *backend.Registry
	router     *router.Router
	selector   *backend.Selector
	forwarder  *proxy.Forwarder
	aggregator *health.Aggregator
}

// buildSnapshot compiles cfg into routing state. When prev is set,
// pools whose instance list did not change keep their cursor.
func (g *Gateway) buildSnapshot(cfg *config.GatewayConfig, prev *snapshot) (*snapshot, error) {
	spec := &cfg.Spec

	var regOpts []backend.RegistryOption
	if prev != nil {
		regOpts = append(regOpts, backend.WithPreviousRegistry(prev.registry))
	}
	registry, err := backend.NewRegistry(spec.Services, regOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build service registry: %w", err)
	}

	rt, err := router.New(spec.Services, spec.StripPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}

	client := g.connPool.Client()

	var selectProber backend.Prober = backend.NewHTTPProber(
		backend.WithProbeClient(client),
		backend.WithProbePath(spec.HealthCheck.Path),
		backend.WithProbeTimeout(spec.Timeouts.SelectProbe.Duration()),
		backend.WithProbeLogger(g.logger),
	)
	if spec.ProbeCache.IsEnabled() {
		selectProber = backend.NewBreakerProber(selectProber, spec.ProbeCache,
			backend.WithBreakerLogger(g.logger),
		)
	}

	aggregateProber := backend.NewHTTPProber(
		backend.WithProbeClient(client),
		backend.WithProbePath(spec.HealthCheck.Path),
		backend.WithProbeTimeout(spec.Timeouts.AggregateProbe.Duration()),
		backend.WithProbeLogger(g.logger),
	)

	aggOpts := []health.AggregatorOption{
		health.WithMode(spec.HealthCheck.Mode),
		health.WithAggregatorLogger(g.logger),
	}
	if g.metrics != nil {
		aggOpts = append(aggOpts, health.WithServiceHealthRecorder(g.metrics))
	}

	return &snapshot{
		config:   cfg,
		registry: registry,
		router:   rt,
		selector: backend.NewSelector(selectProber, backend.WithSelectorLogger(g.logger)),
		forwarder: proxy.NewForwarder(client,
			proxy.WithTimeout(spec.Timeouts.Forward.Duration()),
			proxy.WithForwarderLogger(g.logger),
			proxy.WithForwarderTracer(g.tracer),
		),
		aggregator: health.NewAggregator(aggregateProber, aggOpts...),
	}, nil
}

func logServices(logger observability.Logger, cfg *config.GatewayConfig) {
	for _, svc := range cfg.Spec.Services {
		logger.Info("service configured",
			observability.String("service", svc.Name),
			observability.String("prefix", svc.Prefix),
			observability.Any("instances", svc.Instances),
			observability.Any("methods", svc.Methods),
		)
	}
}
