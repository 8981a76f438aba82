package backend

import (
	"context"

	"github.com/vyrodovalexey/poolgw/internal/observability"
)

type probeState uint8

const (
	probeUnknown probeState = iota
	probeHealthy
	probeUnhealthy
)

// Selector picks a healthy instance from a pool in round-robin order.
type Selector struct {
	prober Prober
	logger observability.Logger
}

// SelectorOption is a functional option for configuring the selector.
type SelectorOption func(*Selector)

// WithSelectorLogger sets the logger for the selector.
func WithSelectorLogger(logger observability.Logger) SelectorOption {
	return func(s *Selector) {
		s.logger = logger
	}
}

// NewSelector creates a selector that checks instances with prober.
func NewSelector(prober Prober, opts ...SelectorOption) *Selector {
	s := &Selector{
		prober: prober,
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select scans the pool starting at its cursor and returns the first
// instance whose probe succeeds. Each instance is probed at most once
// per call. On success the cursor moves to the slot after the chosen
// instance. When no instance is healthy, or ctx ends first, the cursor
// is left unchanged and a *SelectError is returned.
//
// Probes run without holding the pool lock. If another selection moves
// the cursor while this one is probing, the scan restarts from the new
// cursor reusing the probe results already gathered.
func (s *Selector) Select(ctx context.Context, pool *ServicePool) (Instance, error) {
	n := pool.Len()
	states := make([]probeState, n)
	m := getBackendMetrics()

	for {
		start, version := pool.position()

		chosen := -1
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return Instance{}, &SelectError{Pool: pool.Name(), Cause: err}
			}

			idx := (start + i) % n
			if states[idx] == probeUnknown {
				if s.prober.Probe(ctx, pool.instances[idx]) {
					states[idx] = probeHealthy
				} else {
					states[idx] = probeUnhealthy
				}
			}
			if states[idx] == probeHealthy {
				chosen = idx
				break
			}
		}

		if err := ctx.Err(); err != nil {
			return Instance{}, &SelectError{Pool: pool.Name(), Cause: err}
		}

		if chosen < 0 {
			m.exhaustedTotal.WithLabelValues(pool.Name()).Inc()
			s.logger.Warn("no healthy instance in pool",
				observability.String("service", pool.Name()),
				observability.Int("instances", n),
			)
			return Instance{}, &SelectError{Pool: pool.Name(), Cause: ErrPoolExhausted}
		}

		if pool.advance(version, chosen) {
			inst := pool.instances[chosen]
			m.selectionsTotal.WithLabelValues(pool.Name(), inst.Address).Inc()
			s.logger.Debug("instance selected",
				observability.String("service", pool.Name()),
				observability.String("instance", inst.Address),
				observability.Int("index", chosen),
			)
			return inst, nil
		}

		m.selectRetries.WithLabelValues(pool.Name()).Inc()
	}
}
