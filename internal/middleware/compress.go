package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

// DefaultCompressibleTypes lists the content types compressed when the
// configuration does not name any.
var DefaultCompressibleTypes = []string{
	"application/json",
	"application/javascript",
	"text/html",
	"text/css",
	"text/plain",
	"text/xml",
	"application/xml",
}

// Compress returns a middleware that gzip or deflate encodes responses
// whose Content-Type is in types, according to Accept-Encoding.
// Responses that already carry a Content-Encoding are left untouched.
func Compress(level int, types ...string) func(http.Handler) http.Handler {
	if len(types) == 0 {
		types = DefaultCompressibleTypes
	}
	if level <= 0 {
		level = config.DefaultCompressionLevel
	}
	return chimw.Compress(level, types...)
}

// CompressFromConfig creates the compression middleware from gateway
// config. A nil or disabled config yields a pass-through middleware.
func CompressFromConfig(cfg *config.CompressionConfig) func(http.Handler) http.Handler {
	if cfg == nil || !cfg.Enabled {
		return passThrough
	}
	return Compress(cfg.Level, cfg.ContentTypes...)
}

func passThrough(next http.Handler) http.Handler {
	return next
}
