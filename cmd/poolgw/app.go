package main

import (
	"fmt"

	"github.com/vyrodovalexey/poolgw/internal/backend"
	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/gateway"
	"github.com/vyrodovalexey/poolgw/internal/health"
	"github.com/vyrodovalexey/poolgw/internal/middleware"
	"github.com/vyrodovalexey/poolgw/internal/observability"
	"github.com/vyrodovalexey/poolgw/internal/proxy"
)

// metricsNamespace prefixes the gateway request metrics.
const metricsNamespace = "poolgw"

// application holds all application components.
type application struct {
	config  *config.GatewayConfig
	gateway *gateway.Gateway
	metrics *observability.Metrics
	tracer  *observability.Tracer
	logger  observability.Logger
}

// loadConfig resolves, loads and validates the configuration file and
// returns it with its resolved path.
func loadConfig(path string) (*config.GatewayConfig, string, error) {
	resolved, err := config.ResolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(resolved)
	if err != nil {
		return nil, resolved, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, resolved, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, resolved, nil
}

// newLogger builds the logger. Flags override the config file, which
// overrides the defaults.
func newLogger(flags *rootFlags, cfg *config.GatewayConfig, output string) (observability.Logger, error) {
	logCfg := observability.DefaultLogConfig()
	if cfg != nil && cfg.Spec.Observability != nil && cfg.Spec.Observability.Logging != nil {
		l := cfg.Spec.Observability.Logging
		if l.Level != "" {
			logCfg.Level = l.Level
		}
		if l.Format != "" {
			logCfg.Format = l.Format
		}
		if l.Output != "" {
			logCfg.Output = l.Output
		}
	}
	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		logCfg.Format = flags.logFormat
	}
	if output != "" {
		logCfg.Output = output
	}

	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// newTracer creates the tracer from configuration.
func newTracer(cfg *config.GatewayConfig) (*observability.Tracer, error) {
	tracerCfg := observability.TracerConfig{
		ServiceName:    "poolgw",
		ServiceVersion: Version,
		SamplingRate:   1.0,
	}

	if obs := cfg.Spec.Observability; obs != nil && obs.Tracing != nil {
		tracerCfg.Enabled = obs.Tracing.Enabled
		tracerCfg.SamplingRate = obs.Tracing.SamplingRate
		tracerCfg.OTLPEndpoint = obs.Tracing.OTLPEndpoint
		if obs.Tracing.ServiceName != "" {
			tracerCfg.ServiceName = obs.Tracing.ServiceName
		}
	}

	tracer, err := observability.NewTracer(tracerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	return tracer, nil
}

// initSubsystemMetrics registers the package-level metrics with the
// gateway registry so that they are served on the metrics endpoint.
func initSubsystemMetrics(metrics *observability.Metrics) {
	reg := metrics.Registry()
	backend.InitBackendMetrics(reg)
	proxy.InitProxyMetrics(reg)
	health.InitHealthMetrics(reg)
	middleware.InitMiddlewareMetrics(reg)
	config.InitConfigMetrics(reg)
}

// newApplication initializes all application components.
func newApplication(cfg *config.GatewayConfig, logger observability.Logger) (*application, error) {
	metrics := observability.NewMetrics(metricsNamespace)
	metrics.SetBuildInfo(Version, GitCommit, BuildTime)
	initSubsystemMetrics(metrics)

	tracer, err := newTracer(cfg)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(cfg,
		gateway.WithLogger(logger),
		gateway.WithMetrics(metrics),
		gateway.WithTracer(tracer),
		gateway.WithVersion(Version),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}

	return &application{
		config:  cfg,
		gateway: gw,
		metrics: metrics,
		tracer:  tracer,
		logger:  logger,
	}, nil
}
