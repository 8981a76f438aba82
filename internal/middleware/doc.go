// Package middleware provides the HTTP middleware wrapped around the
// gateway handler.
//
// # Middleware Components
//
//   - Recovery: panic recovery with stack trace logging
//   - RequestID: X-Request-ID propagation and generation
//   - RouteTag: stores the matched route label in the request context
//   - Logging: structured access logging
//   - CORS: Cross-Origin Resource Sharing headers and preflight replies
//   - Compress: gzip/deflate response compression
//
// # Usage
//
// Middleware functions follow the standard Go pattern and are composed
// with Chain, outermost first:
//
//	handler := middleware.Chain(
//	    middleware.Recovery(logger),
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	)(yourHandler)
package middleware
