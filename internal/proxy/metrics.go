package proxy

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type proxyMetrics struct {
	forwardDuration *prometheus.HistogramVec
	upstreamStatus  *prometheus.CounterVec
	transportErrors *prometheus.CounterVec
}

var (
	proxyMetricsInstance *proxyMetrics
	proxyMetricsOnce     sync.Once
)

// InitProxyMetrics registers the forwarding metrics with the given
// registry. If registry is nil, the default registerer is used.
// Subsequent calls are no-ops.
func InitProxyMetrics(registry *prometheus.Registry) {
	proxyMetricsOnce.Do(func() {
		var registerer prometheus.Registerer
		if registry != nil {
			registerer = registry
		} else {
			registerer = prometheus.DefaultRegisterer
		}
		factory := promauto.With(registerer)
		proxyMetricsInstance = &proxyMetrics{
			forwardDuration: factory.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "poolgw",
					Subsystem: "proxy",
					Name:      "forward_duration_seconds",
					Help:      "Duration of forwarded upstream requests",
					Buckets: []float64{
						.001, .005, .01, .025,
						.05, .1, .25, .5,
						1, 2.5, 5, 10,
					},
				},
				[]string{"service"},
			),
			upstreamStatus: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "proxy",
					Name:      "upstream_responses_total",
					Help:      "Total number of upstream responses by status code",
				},
				[]string{"service", "status"},
			),
			transportErrors: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "proxy",
					Name:      "transport_errors_total",
					Help:      "Total number of forwards that obtained no upstream response",
				},
				[]string{"service", "error_type"},
			),
		}
	})
}

func getProxyMetrics() *proxyMetrics {
	InitProxyMetrics(nil)
	return proxyMetricsInstance
}

func transportErrorType(err *TransportError) string {
	switch {
	case err.Timeout():
		return "timeout"
	case err.Op == OpReadBody:
		return "read_body"
	case err.Op == OpBuildRequest:
		return "build_request"
	default:
		return "connection"
	}
}
