package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

// CORS request types recorded in metrics.
const (
	corsTypePreflight = "preflight"
	corsTypeSimple    = "simple"
	corsTypeRejected  = "rejected"
)

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns default CORS configuration, which allows
// every origin.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderXRequestID},
		MaxAge:       86400,
	}
}

// corsHeaders holds pre-computed CORS header values.
type corsHeaders struct {
	allowOrigins     map[string]bool
	wildcardPatterns []string
	allowAllOrigins  bool
	allowMethods     string
	allowHeaders     string
	exposeHeaders    string
	maxAge           string
	allowCredentials bool
}

func newCORSHeaders(cfg CORSConfig) *corsHeaders {
	h := &corsHeaders{
		allowOrigins:     make(map[string]bool, len(cfg.AllowOrigins)),
		allowMethods:     strings.Join(cfg.AllowMethods, ", "),
		allowHeaders:     strings.Join(cfg.AllowHeaders, ", "),
		exposeHeaders:    strings.Join(cfg.ExposeHeaders, ", "),
		allowCredentials: cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		h.maxAge = strconv.Itoa(cfg.MaxAge)
	}

	for _, origin := range cfg.AllowOrigins {
		switch {
		case origin == "*":
			h.allowAllOrigins = true
		case strings.HasPrefix(origin, "*."):
			h.wildcardPatterns = append(h.wildcardPatterns, origin)
		default:
			h.allowOrigins[origin] = true
		}
	}
	return h
}

func (h *corsHeaders) isOriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	if h.allowAllOrigins || h.allowOrigins[origin] {
		return true
	}
	for _, pattern := range h.wildcardPatterns {
		if matchWildcardOrigin(origin, pattern) {
			return true
		}
	}
	return false
}

// matchWildcardOrigin reports whether origin matches a pattern such as
// "*.example.com". The bare domain does not match.
func matchWildcardOrigin(origin, pattern string) bool {
	if !strings.HasPrefix(pattern, "*.") {
		return false
	}
	suffix := pattern[1:]

	host := origin
	if idx := strings.Index(host, "://"); idx != -1 {
		host = host[idx+3:]
	}
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	return len(host) > len(suffix) && strings.HasSuffix(host, suffix)
}

// setCORSHeaders sets CORS headers for an allowed origin and reports
// whether the origin was allowed.
func (h *corsHeaders) setCORSHeaders(w http.ResponseWriter, origin string, preflight bool) bool {
	hdr := w.Header()
	hdr.Add(HeaderVary, HeaderOrigin)

	if !h.isOriginAllowed(origin) {
		return false
	}

	if h.allowAllOrigins && !h.allowCredentials {
		hdr.Set("Access-Control-Allow-Origin", "*")
	} else {
		hdr.Set("Access-Control-Allow-Origin", origin)
	}
	if h.allowCredentials {
		hdr.Set("Access-Control-Allow-Credentials", "true")
	}
	if h.exposeHeaders != "" {
		hdr.Set("Access-Control-Expose-Headers", h.exposeHeaders)
	}

	if preflight {
		if h.allowMethods != "" {
			hdr.Set("Access-Control-Allow-Methods", h.allowMethods)
		}
		if h.allowHeaders != "" {
			hdr.Set("Access-Control-Allow-Headers", h.allowHeaders)
		}
		if h.maxAge != "" {
			hdr.Set("Access-Control-Max-Age", h.maxAge)
		}
	}
	return true
}

// CORS returns a middleware that handles CORS. Every OPTIONS request is
// answered with 204 and never reaches the next handler.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	headers := newCORSHeaders(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(HeaderOrigin)
			preflight := r.Method == http.MethodOptions

			allowed := headers.setCORSHeaders(w, origin, preflight)
			if origin != "" {
				m := getMiddlewareMetrics()
				switch {
				case !allowed:
					m.corsRequestsTotal.WithLabelValues(corsTypeRejected).Inc()
				case preflight:
					m.corsRequestsTotal.WithLabelValues(corsTypePreflight).Inc()
				default:
					m.corsRequestsTotal.WithLabelValues(corsTypeSimple).Inc()
				}
			}

			if preflight {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSFromConfig creates CORS middleware from gateway config. A nil or
// disabled config yields a pass-through middleware.
func CORSFromConfig(cfg *config.CORSConfig) func(http.Handler) http.Handler {
	if cfg == nil || !cfg.Enabled {
		return passThrough
	}

	corsConfig := DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}
	if len(cfg.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.AllowHeaders
	}
	if cfg.MaxAge > 0 {
		corsConfig.MaxAge = cfg.MaxAge
	}
	corsConfig.ExposeHeaders = cfg.ExposeHeaders
	corsConfig.AllowCredentials = cfg.AllowCredentials

	return CORS(corsConfig)
}
