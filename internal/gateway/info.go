package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the info endpoint.
const ServiceName = "API Gateway"

// Feature names listed by the info endpoint.
const (
	FeatureLoadBalancing = "Load Balancing (Round Robin)"
	FeatureFailover      = "Automatic Failover"
	FeatureHealthCheck   = "Health Check"
	FeatureCompression   = "Response Compression"
	FeatureCORS          = "CORS"
)

// Info is the payload of GET /.
type Info struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	Features  []string          `json:"features"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
}

// Info describes the gateway and its configured services.
func (g *Gateway) Info() Info {
	cfg := g.Config()

	endpoints := make(map[string]string, len(cfg.Spec.Services))
	for _, svc := range cfg.Spec.Services {
		endpoints[svc.Name] = svc.Prefix
	}

	features := []string{FeatureLoadBalancing, FeatureFailover, FeatureHealthCheck}
	if c := g.static.Spec.Compression; c != nil && c.Enabled {
		features = append(features, FeatureCompression)
	}
	if c := g.static.Spec.CORS; c != nil && c.Enabled {
		features = append(features, FeatureCORS)
	}

	return Info{
		Service:   ServiceName,
		Version:   g.version,
		Endpoints: endpoints,
		Features:  features,
		Uptime:    g.Uptime().Truncate(time.Second).String(),
		Timestamp: g.clock.Now().UTC().Format(time.RFC3339),
	}
}

func (g *Gateway) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, g.Info())
}
