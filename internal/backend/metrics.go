package backend

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe results recorded in metrics.
const (
	probeResultHealthy   = "healthy"
	probeResultUnhealthy = "unhealthy"
	probeResultCached    = "cached_unhealthy"
)

type backendMetrics struct {
	probesTotal       *prometheus.CounterVec
	probeDuration     *prometheus.HistogramVec
	selectionsTotal   *prometheus.CounterVec
	exhaustedTotal    *prometheus.CounterVec
	selectRetries     *prometheus.CounterVec
	breakerTransition *prometheus.CounterVec
}

var (
	backendMetricsInstance *backendMetrics
	backendMetricsOnce     sync.Once
)

// InitBackendMetrics registers the backend metrics with the given
// registry. If registry is nil, the default registerer is used.
// Subsequent calls are no-ops.
func InitBackendMetrics(registry *prometheus.Registry) {
	backendMetricsOnce.Do(func() {
		var registerer prometheus.Registerer
		if registry != nil {
			registerer = registry
		} else {
			registerer = prometheus.DefaultRegisterer
		}
		factory := promauto.With(registerer)
		backendMetricsInstance = &backendMetrics{
			probesTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "backend",
					Name:      "probes_total",
					Help:      "Total number of instance health probes by result",
				},
				[]string{"service", "result"},
			),
			probeDuration: factory.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "poolgw",
					Subsystem: "backend",
					Name:      "probe_duration_seconds",
					Help:      "Duration of instance health probes",
					Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2},
				},
				[]string{"service"},
			),
			selectionsTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "backend",
					Name:      "selections_total",
					Help:      "Total number of successful instance selections",
				},
				[]string{"service", "instance"},
			),
			exhaustedTotal: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "backend",
					Name:      "pool_exhausted_total",
					Help:      "Total number of selections that found no healthy instance",
				},
				[]string{"service"},
			),
			selectRetries: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "backend",
					Name:      "selection_retries_total",
					Help:      "Total number of selections restarted because a concurrent selection moved the cursor",
				},
				[]string{"service"},
			),
			breakerTransition: factory.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "poolgw",
					Subsystem: "backend",
					Name:      "probe_cache_transitions_total",
					Help:      "Total number of probe cache state transitions",
				},
				[]string{"service", "from", "to"},
			),
		}
	})
}

func getBackendMetrics() *backendMetrics {
	InitBackendMetrics(nil)
	return backendMetricsInstance
}

func (m *backendMetrics) recordProbe(service, result string, d time.Duration) {
	m.probesTotal.WithLabelValues(service, result).Inc()
	if result != probeResultCached {
		m.probeDuration.WithLabelValues(service).Observe(d.Seconds())
	}
}
