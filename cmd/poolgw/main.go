// Package main is the entry point for poolgw, a health-aware
// round-robin reverse proxy for service pools.
//
// Usage:
//
//	# Run the gateway
//	poolgw serve --config configs/gateway.yaml
//
//	# Check a configuration file
//	poolgw validate --config configs/gateway.yaml
//
//	# Probe every configured pool once and print the aggregate health
//	poolgw probe
//
//	# Show version information
//	poolgw version
package main

func main() {
	Execute()
}
