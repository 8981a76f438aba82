package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

var compressPayload = `{"items":"` + strings.Repeat("pizza ", 200) + `"}`

func jsonHandler(contentEncoding string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		if contentEncoding != "" {
			w.Header().Set("Content-Encoding", contentEncoding)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, compressPayload)
	})
}

func TestCompress_GzipJSON(t *testing.T) {
	t.Parallel()

	handler := Compress(config.DefaultCompressionLevel)(jsonHandler(""))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, compressPayload, string(body))
}

func TestCompress_NoAcceptEncoding(t *testing.T) {
	t.Parallel()

	handler := Compress(config.DefaultCompressionLevel)(jsonHandler(""))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, compressPayload, rec.Body.String())
}

func TestCompress_AlreadyEncoded(t *testing.T) {
	t.Parallel()

	handler := Compress(config.DefaultCompressionLevel)(jsonHandler("br"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, compressPayload, rec.Body.String())
}

func TestCompressFromConfig_Disabled(t *testing.T) {
	t.Parallel()

	handler := CompressFromConfig(&config.CompressionConfig{Enabled: false})(jsonHandler(""))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, compressPayload, rec.Body.String())
}
