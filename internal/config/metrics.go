package config

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reload results recorded by the watcher.
const (
	reloadResultSuccess         = "success"
	reloadResultLoadError       = "load_error"
	reloadResultValidationError = "validation_error"
)

type configMetrics struct {
	reloadsTotal   *prometheus.CounterVec
	lastReloadTime prometheus.Gauge
}

var (
	configMetricsInstance *configMetrics
	configMetricsOnce     sync.Once
)

// InitConfigMetrics registers the configuration reload metrics with the
// given registry. If registry is nil, the default registerer is used.
// Subsequent calls are no-ops.
func InitConfigMetrics(registry *prometheus.Registry) {
	configMetricsOnce.Do(func() {
		var registerer prometheus.Registerer
		if registry != nil {
			registerer = registry
		} else {
			registerer = prometheus.DefaultRegisterer
		}
		factory := promauto.With(registerer)
		configMetricsInstance = &configMetrics{
			reloadsTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "config",
					Name:      "reloads_total",
					Help:      "Total number of configuration reload attempts",
				},
				[]string{"result"},
			),
			lastReloadTime: factory.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "poolgw",
					Subsystem: "config",
					Name:      "last_reload_success_timestamp_seconds",
					Help:      "Unix time of the last successful configuration reload",
				},
			),
		}
		for _, result := range []string{reloadResultSuccess, reloadResultLoadError, reloadResultValidationError} {
			configMetricsInstance.reloadsTotal.WithLabelValues(result)
		}
	})
}

func getConfigMetrics() *configMetrics {
	InitConfigMetrics(nil)
	return configMetricsInstance
}
