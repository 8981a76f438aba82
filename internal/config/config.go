package config

import (
	"strings"
	"time"
)

// API version and kind accepted by the loader.
const (
	APIVersionPrefix = "gateway.poolgw.io/"
	APIVersionV1     = APIVersionPrefix + "v1"
	KindGateway      = "Gateway"
)

// Health check modes for the aggregate /health endpoint.
const (
	// HealthModeAny probes a pool's instances in order and stops at the
	// first healthy one.
	HealthModeAny = "any"

	// HealthModeRepresentative probes only the first instance of each pool.
	HealthModeRepresentative = "representative"
)

// Default values.
const (
	DefaultBind                  = "0.0.0.0"
	DefaultPort                  = 5000
	DefaultStripPrefix           = "/api"
	DefaultHealthPath            = "/health"
	DefaultSelectProbeTimeout    = 2 * time.Second
	DefaultAggregateProbeTimeout = 1 * time.Second
	DefaultForwardTimeout        = 5 * time.Second
	DefaultShutdownTimeout       = 30 * time.Second
	DefaultReadTimeout           = 30 * time.Second
	DefaultReadHeaderTimeout     = 10 * time.Second
	DefaultWriteTimeout          = 30 * time.Second
	DefaultIdleTimeout           = 120 * time.Second
	DefaultMetricsPath           = "/metrics"
	DefaultCompressionLevel      = 5
	DefaultProbeFailureThreshold = 1
	DefaultProbeOpenTimeout      = 10 * time.Second
)

// DefaultMethods is the method allow-list used when a service does not
// configure one.
var DefaultMethods = []string{"GET", "POST", "PUT", "DELETE"}

// GatewayConfig is the root configuration document.
type GatewayConfig struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Kind       string      `yaml:"kind" json:"kind"`
	Metadata   Metadata    `yaml:"metadata" json:"metadata"`
	Spec       GatewaySpec `yaml:"spec" json:"spec"`
}

// Metadata contains gateway metadata.
type Metadata struct {
	Name   string            `yaml:"name" json:"name"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// GatewaySpec contains the gateway specification.
type GatewaySpec struct {
	Listener       Listener              `yaml:"listener" json:"listener"`
	StripPrefix    string                `yaml:"stripPrefix,omitempty" json:"stripPrefix,omitempty"`
	Timeouts       Timeouts              `yaml:"timeouts,omitempty" json:"timeouts,omitempty"`
	HealthCheck    HealthCheck           `yaml:"healthCheck,omitempty" json:"healthCheck,omitempty"`
	Services       []ServiceConfig       `yaml:"services" json:"services"`
	ProbeCache     *ProbeCacheConfig     `yaml:"probeCache,omitempty" json:"probeCache,omitempty"`
	ConnectionPool *ConnectionPoolConfig `yaml:"connectionPool,omitempty" json:"connectionPool,omitempty"`
	CORS           *CORSConfig           `yaml:"cors,omitempty" json:"cors,omitempty"`
	Compression    *CompressionConfig    `yaml:"compression,omitempty" json:"compression,omitempty"`
	Observability  *ObservabilityConfig  `yaml:"observability,omitempty" json:"observability,omitempty"`
}

// Timeouts holds the network timeouts used by the routing core.
type Timeouts struct {
	// SelectProbe bounds each health probe issued while selecting an instance.
	SelectProbe Duration `yaml:"selectProbe,omitempty" json:"selectProbe,omitempty"`

	// AggregateProbe bounds each probe issued by the aggregate /health endpoint.
	AggregateProbe Duration `yaml:"aggregateProbe,omitempty" json:"aggregateProbe,omitempty"`

	// Forward bounds the proxied request to the chosen instance.
	Forward Duration `yaml:"forward,omitempty" json:"forward,omitempty"`
}

// HealthCheck configures the probe contract.
type HealthCheck struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// ServiceConfig describes one service pool.
type ServiceConfig struct {
	Name        string   `yaml:"name" json:"name"`
	DisplayName string   `yaml:"displayName,omitempty" json:"displayName,omitempty"`
	Prefix      string   `yaml:"prefix" json:"prefix"`
	Rewrite     string   `yaml:"rewrite,omitempty" json:"rewrite,omitempty"`
	Methods     []string `yaml:"methods,omitempty" json:"methods,omitempty"`
	Instances   []string `yaml:"instances" json:"instances"`
}

// Title returns the human readable service name used in error bodies.
func (s ServiceConfig) Title() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if s.Name == "" {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// ProbeCacheConfig configures the opt-in per-instance unhealthy cache.
type ProbeCacheConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// FailureThreshold is the number of consecutive failed probes that
	// marks an instance unhealthy without further network probes.
	FailureThreshold int `yaml:"failureThreshold,omitempty" json:"failureThreshold,omitempty"`

	// OpenTimeout is how long an instance stays marked unhealthy before a
	// single trial probe is allowed.
	OpenTimeout Duration `yaml:"openTimeout,omitempty" json:"openTimeout,omitempty"`
}

// IsEnabled reports whether the probe cache is configured and enabled.
func (p *ProbeCacheConfig) IsEnabled() bool {
	return p != nil && p.Enabled
}

// ConnectionPoolConfig tunes the shared upstream HTTP transport.
type ConnectionPoolConfig struct {
	MaxIdleConns        int      `yaml:"maxIdleConns,omitempty" json:"maxIdleConns,omitempty"`
	MaxIdleConnsPerHost int      `yaml:"maxIdleConnsPerHost,omitempty" json:"maxIdleConnsPerHost,omitempty"`
	MaxConnsPerHost     int      `yaml:"maxConnsPerHost,omitempty" json:"maxConnsPerHost,omitempty"`
	IdleConnTimeout     Duration `yaml:"idleConnTimeout,omitempty" json:"idleConnTimeout,omitempty"`
}

// DefaultConfig returns a configuration with the three stock services
// (menu, order, user) on local ports 5001-5003.
func DefaultConfig() *GatewayConfig {
	cfg := &GatewayConfig{
		APIVersion: APIVersionV1,
		Kind:       KindGateway,
		Metadata:   Metadata{Name: "poolgw"},
		Spec: GatewaySpec{
			Services: []ServiceConfig{
				{Name: "menu", Prefix: "/api/menu", Instances: []string{"http://127.0.0.1:5001"}},
				{Name: "order", Prefix: "/api/orders", Instances: []string{"http://127.0.0.1:5002"}},
				{Name: "user", Prefix: "/api/users", Instances: []string{"http://127.0.0.1:5003"}},
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with their default values.
func ApplyDefaults(cfg *GatewayConfig) {
	if cfg == nil {
		return
	}

	spec := &cfg.Spec

	applyListenerDefaults(&spec.Listener)

	if spec.StripPrefix == "" {
		spec.StripPrefix = DefaultStripPrefix
	}

	if spec.Timeouts.SelectProbe == 0 {
		spec.Timeouts.SelectProbe = Duration(DefaultSelectProbeTimeout)
	}
	if spec.Timeouts.AggregateProbe == 0 {
		spec.Timeouts.AggregateProbe = Duration(DefaultAggregateProbeTimeout)
	}
	if spec.Timeouts.Forward == 0 {
		spec.Timeouts.Forward = Duration(DefaultForwardTimeout)
	}

	if spec.HealthCheck.Path == "" {
		spec.HealthCheck.Path = DefaultHealthPath
	}
	if spec.HealthCheck.Mode == "" {
		spec.HealthCheck.Mode = HealthModeAny
	}

	for i := range spec.Services {
		svc := &spec.Services[i]
		if len(svc.Methods) == 0 {
			svc.Methods = append([]string(nil), DefaultMethods...)
		}
		for j, m := range svc.Methods {
			svc.Methods[j] = strings.ToUpper(m)
		}
	}

	if spec.ProbeCache != nil {
		if spec.ProbeCache.FailureThreshold == 0 {
			spec.ProbeCache.FailureThreshold = DefaultProbeFailureThreshold
		}
		if spec.ProbeCache.OpenTimeout == 0 {
			spec.ProbeCache.OpenTimeout = Duration(DefaultProbeOpenTimeout)
		}
	}

	if spec.CORS == nil {
		spec.CORS = &CORSConfig{Enabled: true}
	}
	if spec.Compression == nil {
		spec.Compression = &CompressionConfig{Enabled: true}
	}
	if spec.Compression.Level == 0 {
		spec.Compression.Level = DefaultCompressionLevel
	}

	applyObservabilityDefaults(spec)
}

func applyListenerDefaults(l *Listener) {
	if l.Name == "" {
		l.Name = "http"
	}
	if l.Bind == "" {
		l.Bind = DefaultBind
	}
	if l.Port == 0 {
		l.Port = DefaultPort
	}
	if l.ReadTimeout == 0 {
		l.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if l.ReadHeaderTimeout == 0 {
		l.ReadHeaderTimeout = Duration(DefaultReadHeaderTimeout)
	}
	if l.WriteTimeout == 0 {
		l.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if l.IdleTimeout == 0 {
		l.IdleTimeout = Duration(DefaultIdleTimeout)
	}
	if l.ShutdownTimeout == 0 {
		l.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
}

func applyObservabilityDefaults(spec *GatewaySpec) {
	if spec.Observability == nil {
		spec.Observability = &ObservabilityConfig{}
	}
	obs := spec.Observability

	if obs.Metrics == nil {
		obs.Metrics = &MetricsConfig{Enabled: true}
	}
	if obs.Metrics.Path == "" {
		obs.Metrics.Path = DefaultMetricsPath
	}

	if obs.Tracing == nil {
		obs.Tracing = &TracingConfig{}
	}
	if obs.Tracing.ServiceName == "" {
		obs.Tracing.ServiceName = "poolgw"
	}
	if obs.Tracing.SamplingRate == 0 {
		obs.Tracing.SamplingRate = 1.0
	}

	if obs.Logging == nil {
		obs.Logging = &LoggingConfig{}
	}
	if obs.Logging.Level == "" {
		obs.Logging.Level = "info"
	}
	if obs.Logging.Format == "" {
		obs.Logging.Format = "json"
	}
}
