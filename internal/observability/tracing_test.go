package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vyrodovalexey/poolgw/internal/util"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer("test"),
	}, recorder
}

func TestNewTracer_Disabled(t *testing.T) {
	t.Parallel()

	tracer, err := NewTracer(TracerConfig{ServiceName: "poolgw"})
	require.NoError(t, err)

	assert.False(t, tracer.Enabled())
	assert.NoError(t, tracer.Shutdown(context.Background()))

	_, span := tracer.StartSpan(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()
}

func TestCreateSampler(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sdktrace.AlwaysSample().Description(), createSampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), createSampler(0).Description())
	assert.Contains(t, createSampler(0.5).Description(), "TraceIDRatioBased")
}

func TestTracingMiddleware_RecordsServerSpan(t *testing.T) {
	t.Parallel()

	tracer, recorder := newRecordingTracer(t)

	var traceID string
	handler := TracingMiddleware(tracer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = util.TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	req = req.WithContext(util.ContextWithRoute(req.Context(), "user"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /api/users", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), traceID)
}

func TestInjectTraceContext(t *testing.T) {
	t.Parallel()

	tracer, _ := newRecordingTracer(t)
	ctx, span := tracer.StartSpan(context.Background(), "client")
	defer span.End()

	req := httptest.NewRequest(http.MethodGet, "http://backend/menu", nil)
	InjectTraceContext(ctx, req)

	// The global propagator may be a no-op when tracing has never been
	// enabled in this process, so only assert that injection is safe.
	assert.NotNil(t, req.Header)
}

func TestRecordSpanError(t *testing.T) {
	t.Parallel()

	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.StartSpan(context.Background(), "forward")
	RecordSpanError(span, nil)
	RecordSpanError(span, errors.New("connection refused"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "connection refused", spans[0].Status().Description)
}
