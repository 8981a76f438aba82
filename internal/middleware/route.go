package middleware

import (
	"net/http"

	"github.com/vyrodovalexey/poolgw/internal/util"
)

// RouteResolver returns the route label for a request.
type RouteResolver func(r *http.Request) string

// RouteTag returns a middleware that stores the label returned by
// resolve in the request context. Metrics, tracing and access logs read
// it from there so raw paths never become label values.
func RouteTag(resolve RouteResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := resolve(r)
			if route == "" {
				route = unknownRoute
			}
			next.ServeHTTP(w, r.WithContext(util.ContextWithRoute(r.Context(), route)))
		})
	}
}

// Chain composes middlewares so that the first one is outermost.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			h = middlewares[i](h)
		}
		return h
	}
}
