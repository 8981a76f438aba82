// Package observability provides logging, metrics, and tracing
// for the pool gateway.
//
// # Logging
//
// The Logger interface wraps zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	logger.Info("instance selected",
//	    observability.String("service", "menu"),
//	    observability.String("instance", "http://10.0.0.5:5001"),
//	)
//
// WithContext attaches the request ID and trace IDs carried on the
// request context.
//
// # Metrics
//
// Metrics owns a private Prometheus registry that backs the /metrics
// endpoint. Subsystems (backend selection, forwarding, config reload)
// register their own collectors against the same registry.
//
// # Tracing
//
// Tracer wraps an OpenTelemetry provider with OTLP/gRPC export. When
// tracing is disabled the tracer hands out non-recording spans.
package observability
