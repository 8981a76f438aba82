package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/poolgw/internal/util"
)

func captureRequestID(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = util.RequestIDFromContext(r.Context())
	})
}

func TestRequestID_Generates(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID()(captureRequestID(&seen))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(HeaderXRequestID))
}

func TestRequestID_KeepsInbound(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID()(captureRequestID(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderXRequestID))
}

func TestRequestID_ReplacesOversized(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestIDWithGenerator(func() string { return "generated" })(captureRequestID(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", maxRequestIDLength+1))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "generated", seen)
}
