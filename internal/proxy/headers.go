package proxy

import (
	"net"
	"net/http"
	"strings"

	"github.com/vyrodovalexey/poolgw/internal/util"
)

// Header names set on forwarded requests.
const (
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderXForwardedHost  = "X-Forwarded-Host"
	HeaderXForwardedProto = "X-Forwarded-Proto"
	HeaderXRequestID      = "X-Request-ID"
)

// hopHeaders are headers that should not be forwarded.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// removeHopHeaders deletes hop-by-hop headers, including any named in
// the Connection header.
func removeHopHeaders(h http.Header) {
	for _, v := range h.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopHeaders {
		h.Del(name)
	}
}

// outboundHeader builds the header sent upstream from the client request.
func outboundHeader(r *http.Request) http.Header {
	h := r.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	removeHopHeaders(h)

	// The transport negotiates and decodes compression itself.
	h.Del("Accept-Encoding")

	if clientIP, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if prior := r.Header.Get(HeaderXForwardedFor); prior != "" {
			clientIP = prior + ", " + clientIP
		}
		h.Set(HeaderXForwardedFor, clientIP)
	}

	if r.TLS != nil {
		h.Set(HeaderXForwardedProto, "https")
	} else {
		h.Set(HeaderXForwardedProto, "http")
	}

	if r.Host != "" {
		h.Set(HeaderXForwardedHost, r.Host)
	}

	if requestID := util.RequestIDFromContext(r.Context()); requestID != "" {
		h.Set(HeaderXRequestID, requestID)
	}

	return h
}

// responseHeader returns the end-to-end upstream headers. The content
// length is dropped because it is recomputed from the buffered body.
func responseHeader(src http.Header) http.Header {
	h := src.Clone()
	if h == nil {
		return make(http.Header)
	}
	removeHopHeaders(h)
	h.Del("Content-Length")
	return h
}
