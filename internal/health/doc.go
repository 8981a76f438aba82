// Package health computes the gateway's aggregate health.
//
// The Aggregator probes every service pool concurrently and reports,
// per service, whether at least one instance answered its health
// endpoint. The gateway is healthy only when every service is:
//
//	agg := health.NewAggregator(prober, health.WithMode(config.HealthModeAny))
//	report := agg.Check(ctx, registry)
//	w.WriteHeader(report.HTTPStatus()) // 200 or 503
package health
