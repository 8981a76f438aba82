// Package backend provides service pools and health-aware instance
// selection for the pool gateway.
//
// A ServicePool holds the ordered instances of one service and a
// round-robin cursor. The Selector scans a pool from its cursor,
// probing each instance at most once, and returns the first healthy
// one:
//
//	prober := backend.NewHTTPProber(
//	    backend.WithProbeClient(connPool.Client()),
//	    backend.WithProbeTimeout(2*time.Second),
//	)
//	selector := backend.NewSelector(prober)
//	inst, err := selector.Select(ctx, pool)
//	if backend.IsPoolExhausted(err) {
//	    // every instance failed its probe
//	}
//
// BreakerProber can wrap a prober to skip instances that failed
// recently. Without it every selection probes the network.
package backend
