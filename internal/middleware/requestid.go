package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/poolgw/internal/util"
)

// maxRequestIDLength bounds an inbound request ID; longer values are
// replaced with a generated one.
const maxRequestIDLength = 128

// RequestID returns a middleware that adds a request ID to each request.
// An inbound X-Request-ID is kept; otherwise a UUID is generated.
func RequestID() func(http.Handler) http.Handler {
	return RequestIDWithGenerator(func() string {
		return uuid.New().String()
	})
}

// RequestIDWithGenerator returns a middleware that uses a custom ID generator.
func RequestIDWithGenerator(generator func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderXRequestID)
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = generator()
			}

			ctx := util.ContextWithRequestID(r.Context(), requestID)
			r = r.WithContext(ctx)

			w.Header().Set(HeaderXRequestID, requestID)

			next.ServeHTTP(w, r)
		})
	}
}
