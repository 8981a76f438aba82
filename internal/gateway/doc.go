// Package gateway wires the routing core into an HTTP server.
//
// A Gateway owns a gin engine serving three fixed endpoints and a
// fallback that dispatches every other request:
//
//   - GET /         gateway info (service name, version, endpoints, features)
//   - GET /health   aggregate health of every service pool
//   - GET /metrics  Prometheus metrics, when enabled
//   - anything else is matched by path prefix to a service pool, an
//     instance is selected, and the request is forwarded to it
//
// Dispatch maps failures to distinct statuses: 404 when no service
// matches, 405 when the service does not accept the method, 503 when
// every instance of the pool failed its probe, and 500 when the chosen
// instance could not be reached. Upstream responses, including error
// statuses, are relayed verbatim.
//
// The service registry and route table form an immutable snapshot that
// Reload replaces atomically. Requests in flight keep the snapshot they
// started with.
package gateway
