// Package config provides configuration types and loading for the
// pool gateway.
//
// The configuration names each service pool, the URL prefix routed to
// it, and the ordered list of instance base URLs. It also carries the
// probe and forwarding timeouts and the listener, CORS, compression
// and observability settings.
//
// # Configuration Loading
//
// Load configuration from a YAML file:
//
//	cfg, err := config.LoadConfig("gateway.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := config.ValidateConfig(cfg); err != nil {
//	    return err
//	}
//
// ${VAR} and ${VAR:-default} are replaced from the environment before
// parsing, and "$$" yields a literal "$". Unset fields are filled by
// ApplyDefaults.
//
// # File Watching
//
// Watch for configuration changes:
//
//	watcher, err := config.NewWatcher(path, func(cfg *config.GatewayConfig) {
//	    // swap routing state
//	}, config.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start(ctx); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
//
// A file that fails to load or validate is rejected and the previous
// configuration stays in effect.
package config
