package backend

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// maxProbeBodyDrain bounds how much of a probe response body is read
// so the connection can be reused.
const maxProbeBodyDrain = 4 << 10

// Prober reports whether an instance is healthy. Implementations must
// honor ctx and return false when it is done.
type Prober interface {
	Probe(ctx context.Context, inst Instance) bool
}

// ProbeFunc adapts a function to the Prober interface.
type ProbeFunc func(ctx context.Context, inst Instance) bool

// Probe calls f(ctx, inst).
func (f ProbeFunc) Probe(ctx context.Context, inst Instance) bool {
	return f(ctx, inst)
}

// HTTPProber issues GET <instance><path> and treats any 2xx response as
// healthy. Transport errors, timeouts and non-2xx statuses are unhealthy.
type HTTPProber struct {
	client  *http.Client
	path    string
	timeout time.Duration
	logger  observability.Logger
}

// HTTPProberOption is a functional option for configuring the prober.
type HTTPProberOption func(*HTTPProber)

// WithProbeClient sets the HTTP client used for probes.
func WithProbeClient(client *http.Client) HTTPProberOption {
	return func(p *HTTPProber) {
		p.client = client
	}
}

// WithProbePath sets the health endpoint path.
func WithProbePath(path string) HTTPProberOption {
	return func(p *HTTPProber) {
		p.path = path
	}
}

// WithProbeTimeout sets the per-probe timeout.
func WithProbeTimeout(timeout time.Duration) HTTPProberOption {
	return func(p *HTTPProber) {
		p.timeout = timeout
	}
}

// WithProbeLogger sets the logger for the prober.
func WithProbeLogger(logger observability.Logger) HTTPProberOption {
	return func(p *HTTPProber) {
		p.logger = logger
	}
}

// NewHTTPProber creates a prober with the default path and select timeout.
func NewHTTPProber(opts ...HTTPProberOption) *HTTPProber {
	p := &HTTPProber{
		client:  http.DefaultClient,
		path:    config.DefaultHealthPath,
		timeout: config.DefaultSelectProbeTimeout,
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe checks a single instance.
func (p *HTTPProber) Probe(ctx context.Context, inst Instance) bool {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	healthy := p.do(ctx, inst)

	result := probeResultUnhealthy
	if healthy {
		result = probeResultHealthy
	}
	getBackendMetrics().recordProbe(inst.Service, result, time.Since(start))

	return healthy
}

func (p *HTTPProber) do(ctx context.Context, inst Instance) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, inst.URL(p.path, ""), http.NoBody)
	if err != nil {
		p.logger.Debug("failed to build probe request",
			observability.String("service", inst.Service),
			observability.String("instance", inst.Address),
			observability.Error(err),
		)
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("health probe failed",
			observability.String("service", inst.Service),
			observability.String("instance", inst.Address),
			observability.Error(err),
		)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeBodyDrain))

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return true
	}

	p.logger.Debug("health probe returned non-2xx status",
		observability.String("service", inst.Service),
		observability.String("instance", inst.Address),
		observability.Int("status", resp.StatusCode),
	)
	return false
}
