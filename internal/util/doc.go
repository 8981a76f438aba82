// Package util provides small shared helpers for the pool gateway.
//
// # Context Helpers
//
// Request-scoped values are carried on the request context:
//
//	ctx = util.ContextWithRequestID(ctx, "req-123")
//	requestID := util.RequestIDFromContext(ctx)
//
// The route label (the service pool name for proxied requests) is stored
// with ContextWithRoute so that metrics and access logs can use a bounded
// label instead of the raw request path.
//
// # JSON Responses
//
// WriteJSON and WriteError produce the gateway's JSON bodies:
//
//	util.WriteError(w, http.StatusServiceUnavailable, "Menu service unavailable", "all menu servers are down")
package util
