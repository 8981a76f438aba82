package health

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type healthMetrics struct {
	checksTotal   *prometheus.CounterVec
	checkDuration prometheus.Histogram
}

var (
	healthMetricsInstance *healthMetrics
	healthMetricsOnce     sync.Once
)

// InitHealthMetrics registers the aggregate health metrics with the
// given registry. If registry is nil, the default registerer is used.
// Subsequent calls are no-ops.
func InitHealthMetrics(registry *prometheus.Registry) {
	healthMetricsOnce.Do(func() {
		var registerer prometheus.Registerer
		if registry != nil {
			registerer = registry
		} else {
			registerer = prometheus.DefaultRegisterer
		}
		factory := promauto.With(registerer)
		healthMetricsInstance = &healthMetrics{
			checksTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "health",
					Name:      "checks_total",
					Help:      "Total number of aggregate health checks by status",
				},
				[]string{"status"},
			),
			checkDuration: factory.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "poolgw",
					Subsystem: "health",
					Name:      "check_duration_seconds",
					Help:      "Duration of aggregate health checks",
					Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2},
				},
			),
		}
		healthMetricsInstance.checksTotal.WithLabelValues(string(StatusHealthy))
		healthMetricsInstance.checksTotal.WithLabelValues(string(StatusDegraded))
	})
}

func getHealthMetrics() *healthMetrics {
	InitHealthMetrics(nil)
	return healthMetricsInstance
}
