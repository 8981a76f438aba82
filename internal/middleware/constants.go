package middleware

// unknownRoute is the fallback label value used when the route name
// is not available in the request context.
const unknownRoute = "unknown"

// HTTP header constants.
const (
	// HeaderContentType is the Content-Type header name.
	HeaderContentType = "Content-Type"

	// HeaderOrigin is the Origin header name.
	HeaderOrigin = "Origin"

	// HeaderVary is the Vary header name.
	HeaderVary = "Vary"

	// HeaderXRequestID is the X-Request-ID header name.
	HeaderXRequestID = "X-Request-ID"
)

// Content type constants.
const (
	// ContentTypeJSON is the JSON content type.
	ContentTypeJSON = "application/json"
)

// Error response constants.
const (
	// ErrInternalServerError is the error message for internal server error.
	ErrInternalServerError = `{"error":"internal server error"}`
)
