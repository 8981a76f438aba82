package middleware

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// middlewareMetrics holds Prometheus metrics for middleware operations.
type middlewareMetrics struct {
	panicsRecovered   prometheus.Counter
	corsRequestsTotal *prometheus.CounterVec
}

var (
	middlewareMetricsInstance *middlewareMetrics
	middlewareMetricsOnce     sync.Once
)

// InitMiddlewareMetrics registers the middleware metrics with the given
// registry. If registry is nil, the default registerer is used.
// Subsequent calls are no-ops.
func InitMiddlewareMetrics(registry *prometheus.Registry) {
	middlewareMetricsOnce.Do(func() {
		var registerer prometheus.Registerer
		if registry != nil {
			registerer = registry
		} else {
			registerer = prometheus.DefaultRegisterer
		}
		factory := promauto.With(registerer)
		middlewareMetricsInstance = &middlewareMetrics{
			panicsRecovered: factory.NewCounter(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "middleware",
					Name:      "panics_recovered_total",
					Help:      "Total number of panics recovered by middleware",
				},
			),
			corsRequestsTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "middleware",
					Name:      "cors_requests_total",
					Help:      "Total number of CORS requests by type",
				},
				[]string{"type"},
			),
		}
	})
}

func getMiddlewareMetrics() *middlewareMetrics {
	InitMiddlewareMetrics(nil)
	return middlewareMetricsInstance
}
