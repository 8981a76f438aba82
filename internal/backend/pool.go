package backend

import (
	"net"
	"net/http"
	"time"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

// PoolConfig contains connection pool configuration.
type PoolConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	MaxConnsPerHost       int
	IdleConnTimeout       time.Duration
	DialTimeout           time.Duration
	ExpectContinueTimeout time.Duration
}

// DefaultPoolConfig returns default pool configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       90 * time.Second,
		DialTimeout:           5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// PoolConfigFromConfig overlays the configured values on the defaults.
func PoolConfigFromConfig(cfg *config.ConnectionPoolConfig) PoolConfig {
	pc := DefaultPoolConfig()
	if cfg == nil {
		return pc
	}
	if cfg.MaxIdleConns > 0 {
		pc.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxIdleConnsPerHost > 0 {
		pc.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}
	if cfg.MaxConnsPerHost > 0 {
		pc.MaxConnsPerHost = cfg.MaxConnsPerHost
	}
	if cfg.IdleConnTimeout > 0 {
		pc.IdleConnTimeout = cfg.IdleConnTimeout.Duration()
	}
	return pc
}

// ConnectionPool owns the HTTP client shared by probes and forwarding.
// Per-call deadlines come from the request context, not the client.
type ConnectionPool struct {
	config    PoolConfig
	transport *http.Transport
	client    *http.Client
}

// NewConnectionPool creates a new connection pool.
func NewConnectionPool(cfg PoolConfig) *ConnectionPool {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
	}

	client := &http.Client{
		Transport: transport,
		// Upstream redirects are relayed to the client, not followed.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &ConnectionPool{
		config:    cfg,
		transport: transport,
		client:    client,
	}
}

// Client returns the HTTP client.
func (p *ConnectionPool) Client() *http.Client {
	return p.client
}

// Transport returns the HTTP transport.
func (p *ConnectionPool) Transport() *http.Transport {
	return p.transport
}

// CloseIdleConnections closes idle connections.
func (p *ConnectionPool) CloseIdleConnections() {
	p.transport.CloseIdleConnections()
}

// PoolStats describes the configured connection limits.
type PoolStats struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
}

// Stats returns the pool statistics.
func (p *ConnectionPool) Stats() PoolStats {
	return PoolStats{
		MaxIdleConns:        p.config.MaxIdleConns,
		MaxIdleConnsPerHost: p.config.MaxIdleConnsPerHost,
		MaxConnsPerHost:     p.config.MaxConnsPerHost,
	}
}
