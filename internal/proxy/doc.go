// Package proxy forwards a client request to one chosen upstream
// instance and captures the upstream response.
//
// The Forwarder keeps the client's method, query string and body, sends
// them to the instance's resource path, and reads the response in full.
// Any upstream status, including 4xx and 5xx, is an Outcome to relay
// verbatim. Only failures to obtain a response (connection refused,
// DNS failure, timeout, broken body) are reported as *TransportError.
//
//	fwd := proxy.NewForwarder(connPool.Client(), proxy.WithTimeout(5*time.Second))
//	out, err := fwd.Forward(ctx, "menu", inst, r, "/menu/3")
//	if err != nil {
//	    // 500 with the transport error text
//	}
//	out.WriteTo(w)
package proxy
