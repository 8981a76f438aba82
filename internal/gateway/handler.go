package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/poolgw/internal/middleware"
	"github.com/vyrodovalexey/poolgw/internal/observability"
)

// HealthPath is the aggregate health endpoint.
const HealthPath = "/health"

// Route labels for requests that do not dispatch to a service.
const (
	routeInfo      = "info"
	routeHealth    = "health"
	routeMetrics   = "metrics"
	routeUnmatched = "unmatched"
)

func (g *Gateway) setupRoutes() {
	g.engine.RedirectTrailingSlash = false
	g.engine.RedirectFixedPath = false

	g.engine.GET("/", g.handleInfo)
	g.engine.GET(HealthPath, g.handleHealth)
	if g.metricsPath != "" {
		g.engine.GET(g.metricsPath, gin.WrapH(g.metrics.Handler()))
	}
	g.engine.NoRoute(g.handleDispatch)
}

// buildHandler wraps the engine in the middleware chain, outermost first.
func (g *Gateway) buildHandler() http.Handler {
	spec := &g.static.Spec

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(g.logger),
		middleware.RequestID(),
		middleware.RouteTag(g.routeLabel),
		observability.TracingMiddleware(g.tracer),
		middleware.Logging(g.logger),
	}
	if g.metrics != nil {
		chain = append(chain, observability.MetricsMiddleware(g.metrics))
	}
	chain = append(chain,
		middleware.CORSFromConfig(spec.CORS),
		middleware.CompressFromConfig(spec.Compression),
	)

	return middleware.Chain(chain...)(g.engine)
}

// routeLabel mirrors the engine's routing so that metrics and logs are
// labelled by service rather than by raw path.
func (g *Gateway) routeLabel(r *http.Request) string {
	path := r.URL.Path
	if r.Method == http.MethodGet {
		switch {
		case path == "/":
			return routeInfo
		case path == HealthPath:
			return routeHealth
		case g.metricsPath != "" && path == g.metricsPath:
			return routeMetrics
		}
	}

	if match, ok := g.snap.Load().router.Match(path); ok {
		return match.Route.Service
	}
	return routeUnmatched
}

func (g *Gateway) handleHealth(c *gin.Context) {
	report := g.CheckHealth(c.Request.Context())
	c.JSON(report.HTTPStatus(), report)
}
