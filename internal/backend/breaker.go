package backend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

var errProbeUnhealthy = errors.New("instance unhealthy")

// BreakerProber remembers failing instances for a while so that
// selections skip them without a network probe. Each instance gets its
// own breaker: after FailureThreshold consecutive failed probes the
// instance is reported unhealthy until OpenTimeout elapses, then a
// single trial probe decides whether it is healthy again.
type BreakerProber struct {
	next        Prober
	threshold   uint32
	openTimeout time.Duration
	logger      observability.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// BreakerProberOption is a functional option for configuring the prober.
type BreakerProberOption func(*BreakerProber)

// WithBreakerLogger sets the logger for the breaker prober.
func WithBreakerLogger(logger observability.Logger) BreakerProberOption {
	return func(b *BreakerProber) {
		b.logger = logger
	}
}

// NewBreakerProber wraps next with a per-instance unhealthy cache.
func NewBreakerProber(next Prober, cfg *config.ProbeCacheConfig, opts ...BreakerProberOption) *BreakerProber {
	threshold := config.DefaultProbeFailureThreshold
	openTimeout := config.DefaultProbeOpenTimeout
	if cfg != nil {
		if cfg.FailureThreshold > 0 {
			threshold = cfg.FailureThreshold
		}
		if cfg.OpenTimeout > 0 {
			openTimeout = cfg.OpenTimeout.Duration()
		}
	}

	b := &BreakerProber{
		next:        next,
		threshold:   safeIntToUint32(threshold),
		openTimeout: openTimeout,
		logger:      observability.NopLogger(),
		breakers:    make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Probe reports whether inst is healthy, probing it only when its
// breaker allows.
func (b *BreakerProber) Probe(ctx context.Context, inst Instance) bool {
	if ctx.Err() != nil {
		return false
	}

	cb := b.breakerFor(inst)
	_, err := cb.Execute(func() (interface{}, error) {
		if b.next.Probe(ctx, inst) {
			return nil, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errProbeUnhealthy
	})

	switch {
	case err == nil:
		return true
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		getBackendMetrics().recordProbe(inst.Service, probeResultCached, 0)
		return false
	default:
		return false
	}
}

// State returns the breaker state for inst.
func (b *BreakerProber) State(inst Instance) gobreaker.State {
	return b.breakerFor(inst).State()
}

func (b *BreakerProber) breakerFor(inst Instance) *gobreaker.CircuitBreaker {
	key := inst.key()

	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.breakers[key]; ok {
		return cb
	}

	threshold := b.threshold
	service := inst.Service
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        inst.Address,
		MaxRequests: 1,
		Timeout:     b.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller says nothing about the instance.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Info("probe cache state change",
				observability.String("service", service),
				observability.String("instance", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
			getBackendMetrics().breakerTransition.WithLabelValues(service, from.String(), to.String()).Inc()
		},
	})
	b.breakers[key] = cb
	return cb
}

// safeIntToUint32 safely converts int to uint32.
func safeIntToUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > int(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n) //nolint:gosec // bounds checked above
}
