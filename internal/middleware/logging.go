package middleware

import (
	"net/http"
	"time"

	"github.com/vyrodovalexey/poolgw/internal/observability"
	"github.com/vyrodovalexey/poolgw/internal/util"
)

// Logging returns a middleware that writes one access log entry per request.
func Logging(logger observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := util.ContextWithStartTime(r.Context(), time.Now())
			r = r.WithContext(ctx)

			rw := util.NewStatusCapturingResponseWriter(w)

			next.ServeHTTP(rw, r)

			fields := []observability.Field{
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("query", r.URL.RawQuery),
				observability.Int("status", rw.StatusCode),
				observability.Int("size", rw.Size),
				observability.Duration("duration", util.ElapsedTime(ctx)),
				observability.String("remote_addr", r.RemoteAddr),
				observability.String("user_agent", r.UserAgent()),
				observability.String("route", util.RouteFromContext(r.Context())),
			}

			//nolint:contextcheck // Using request context is correct here
			l := logger.WithContext(r.Context())
			if rw.StatusCode >= http.StatusInternalServerError {
				l.Warn("http request", fields...)
				return
			}
			l.Info("http request", fields...)
		})
	}
}
