package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, APIVersionV1, cfg.APIVersion)
	assert.Equal(t, KindGateway, cfg.Kind)
	require.Len(t, cfg.Spec.Services, 3)

	expected := map[string]string{
		"menu":  "/api/menu",
		"order": "/api/orders",
		"user":  "/api/users",
	}
	for _, svc := range cfg.Spec.Services {
		assert.Equal(t, expected[svc.Name], svc.Prefix, svc.Name)
		assert.Len(t, svc.Instances, 1)
		assert.Equal(t, DefaultMethods, svc.Methods)
	}

	assert.NoError(t, ValidateConfig(cfg))
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := &GatewayConfig{
		Spec: GatewaySpec{
			Services: []ServiceConfig{
				{Name: "menu", Prefix: "/api/menu", Methods: []string{"get", "Post"}},
			},
			ProbeCache: &ProbeCacheConfig{Enabled: true},
		},
	}
	ApplyDefaults(cfg)

	spec := cfg.Spec
	assert.Equal(t, DefaultBind, spec.Listener.Bind)
	assert.Equal(t, DefaultPort, spec.Listener.Port)
	assert.Equal(t, DefaultShutdownTimeout, spec.Listener.ShutdownTimeout.Duration())
	assert.Equal(t, DefaultStripPrefix, spec.StripPrefix)
	assert.Equal(t, 2*time.Second, spec.Timeouts.SelectProbe.Duration())
	assert.Equal(t, time.Second, spec.Timeouts.AggregateProbe.Duration())
	assert.Equal(t, 5*time.Second, spec.Timeouts.Forward.Duration())
	assert.Equal(t, DefaultHealthPath, spec.HealthCheck.Path)
	assert.Equal(t, HealthModeAny, spec.HealthCheck.Mode)
	assert.Equal(t, []string{"GET", "POST"}, spec.Services[0].Methods)
	assert.Equal(t, DefaultProbeFailureThreshold, spec.ProbeCache.FailureThreshold)
	assert.Equal(t, DefaultProbeOpenTimeout, spec.ProbeCache.OpenTimeout.Duration())

	require.NotNil(t, spec.CORS)
	assert.True(t, spec.CORS.Enabled)
	require.NotNil(t, spec.Compression)
	assert.True(t, spec.Compression.Enabled)
	assert.Equal(t, DefaultCompressionLevel, spec.Compression.Level)

	require.NotNil(t, spec.Observability)
	assert.True(t, spec.Observability.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsPath, spec.Observability.Metrics.Path)
	assert.False(t, spec.Observability.Tracing.Enabled)
	assert.Equal(t, 1.0, spec.Observability.Tracing.SamplingRate)
	assert.Equal(t, "info", spec.Observability.Logging.Level)
	assert.Equal(t, "json", spec.Observability.Logging.Format)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := &GatewayConfig{
		Spec: GatewaySpec{
			Listener:    Listener{Port: 8080},
			StripPrefix: "/v1",
			Timeouts:    Timeouts{Forward: Duration(10 * time.Second)},
			Compression: &CompressionConfig{Enabled: false, Level: 9},
		},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, 8080, cfg.Spec.Listener.Port)
	assert.Equal(t, "/v1", cfg.Spec.StripPrefix)
	assert.Equal(t, 10*time.Second, cfg.Spec.Timeouts.Forward.Duration())
	assert.False(t, cfg.Spec.Compression.Enabled)
	assert.Equal(t, 9, cfg.Spec.Compression.Level)
}

func TestApplyDefaults_Nil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestServiceConfig_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		svc  ServiceConfig
		want string
	}{
		{name: "capitalized name", svc: ServiceConfig{Name: "menu"}, want: "Menu"},
		{name: "display name wins", svc: ServiceConfig{Name: "order", DisplayName: "Orders"}, want: "Orders"},
		{name: "empty", svc: ServiceConfig{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.svc.Title())
		})
	}
}

func TestProbeCacheConfig_IsEnabled(t *testing.T) {
	t.Parallel()

	var nilCfg *ProbeCacheConfig
	assert.False(t, nilCfg.IsEnabled())
	assert.False(t, (&ProbeCacheConfig{}).IsEnabled())
	assert.True(t, (&ProbeCacheConfig{Enabled: true}).IsEnabled())
}
