package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/poolgw/internal/backend"
	"github.com/vyrodovalexey/poolgw/internal/config"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// DefaultMaxResponseBytes bounds the buffered upstream response body.
const DefaultMaxResponseBytes int64 = 32 << 20

// Outcome is a complete upstream response.
type Outcome struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the upstream Content-Type, if any.
func (o *Outcome) ContentType() string {
	return o.Header.Get("Content-Type")
}

// WriteTo relays the outcome to the client verbatim.
func (o *Outcome) WriteTo(w http.ResponseWriter) error {
	h := w.Header()
	for k, vv := range o.Header {
		h[k] = append([]string(nil), vv...)
	}
	h.Set("Content-Length", strconv.Itoa(len(o.Body)))
	w.WriteHeader(o.StatusCode)
	if len(o.Body) == 0 {
		return nil
	}
	_, err := w.Write(o.Body)
	return err
}

// Forwarder sends client requests to upstream instances.
type Forwarder struct {
	client           *http.Client
	timeout          time.Duration
	maxResponseBytes int64
	logger           observability.Logger
	tracer           *observability.Tracer
}

// ForwarderOption is a functional option for configuring the forwarder.
type ForwarderOption func(*Forwarder)

// WithTimeout sets the deadline for one forwarded exchange, including
// reading the response body.
func WithTimeout(timeout time.Duration) ForwarderOption {
	return func(f *Forwarder) {
		f.timeout = timeout
	}
}

// WithMaxResponseBytes bounds the buffered response body.
func WithMaxResponseBytes(n int64) ForwarderOption {
	return func(f *Forwarder) {
		f.maxResponseBytes = n
	}
}

// WithForwarderLogger sets the logger for the forwarder.
func WithForwarderLogger(logger observability.Logger) ForwarderOption {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

// WithForwarderTracer sets the tracer used for client spans.
func WithForwarderTracer(tracer *observability.Tracer) ForwarderOption {
	return func(f *Forwarder) {
		f.tracer = tracer
	}
}

// NewForwarder creates a forwarder that uses client for upstream calls.
func NewForwarder(client *http.Client, opts ...ForwarderOption) *Forwarder {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Forwarder{
		client:           client,
		timeout:          config.DefaultForwardTimeout,
		maxResponseBytes: DefaultMaxResponseBytes,
		logger:           observability.NopLogger(),
		tracer:           observability.NoopTracer(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forward sends r to resourcePath on inst with r's method, query string
// and body, and returns the upstream response. resourcePath is in escaped
// form and is sent as given. An upstream error status
// is a successful Outcome; a *TransportError is returned only when no
// complete response was obtained.
func (f *Forwarder) Forward(
	ctx context.Context,
	service string,
	inst backend.Instance,
	r *http.Request,
	resourcePath string,
) (*Outcome, error) {
	target := inst.URL(resourcePath, r.URL.RawQuery)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	ctx, span := f.tracer.StartSpan(ctx, "proxy.forward",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("poolgw.service", service),
			attribute.String("poolgw.instance", inst.Address),
			attribute.String("http.request.method", r.Method),
			attribute.String("url.full", target),
		),
	)
	defer span.End()

	start := time.Now()
	m := getProxyMetrics()

	out, err := f.roundTrip(ctx, service, inst, r, target)
	m.forwardDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())

	if err != nil {
		m.transportErrors.WithLabelValues(service, transportErrorType(err)).Inc()
		observability.RecordSpanError(span, err)
		f.logger.Warn("upstream request failed",
			observability.String("service", service),
			observability.String("instance", inst.Address),
			observability.String("method", r.Method),
			observability.String("target", target),
			observability.Duration("duration", time.Since(start)),
			observability.Error(err),
		)
		return nil, err
	}

	m.upstreamStatus.WithLabelValues(service, strconv.Itoa(out.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.response.status_code", out.StatusCode))

	f.logger.Debug("upstream responded",
		observability.String("service", service),
		observability.String("instance", inst.Address),
		observability.String("method", r.Method),
		observability.String("target", target),
		observability.Int("status", out.StatusCode),
		observability.Int("bytes", len(out.Body)),
	)

	return out, nil
}

func (f *Forwarder) roundTrip(
	ctx context.Context,
	service string,
	inst backend.Instance,
	r *http.Request,
	target string,
) (*Outcome, *TransportError) {
	var body io.Reader = http.NoBody
	if r.Body != nil && r.Body != http.NoBody {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, NewTransportError(OpBuildRequest, service, target, err)
	}
	req.Header = outboundHeader(r)
	req.ContentLength = r.ContentLength
	if body == http.NoBody {
		req.ContentLength = 0
	}
	req.Host = req.URL.Host

	observability.InjectTraceContext(ctx, req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewTransportError(OpRoundTrip, service, target, err)
	}
	defer resp.Body.Close()

	payload, err := f.readBody(resp.Body)
	if err != nil {
		return nil, NewTransportError(OpReadBody, service, target, err)
	}

	return &Outcome{
		StatusCode: resp.StatusCode,
		Header:     responseHeader(resp.Header),
		Body:       payload,
	}, nil
}

func (f *Forwarder) readBody(rc io.Reader) ([]byte, error) {
	if f.maxResponseBytes <= 0 {
		return io.ReadAll(rc)
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(rc, f.maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if n > f.maxResponseBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, f.maxResponseBytes)
	}
	return buf.Bytes(), nil
}
