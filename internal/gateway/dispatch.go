package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/poolgw/internal/backend"
	"github.com/vyrodovalexey/poolgw/internal/observability"
	"github.com/vyrodovalexey/poolgw/internal/router"
	"github.com/vyrodovalexey/poolgw/internal/util"
)

// handleDispatch routes a request to its service pool, selects a
// healthy instance and relays the upstream response.
func (g *Gateway) handleDispatch(c *gin.Context) {
	snap := g.snap.Load()
	r := c.Request

	match, ok := snap.router.MatchURL(r.URL)
	if !ok {
		c.JSON(http.StatusNotFound, util.ErrorResponse{
			Error:   "not found",
			Message: fmt.Sprintf("no service matches path %s", r.URL.Path),
		})
		return
	}
	route := match.Route

	if !route.Allows(r.Method) {
		c.Header("Allow", route.Allow())
		c.JSON(http.StatusMethodNotAllowed, util.ErrorResponse{
			Error:   "method not allowed",
			Message: fmt.Sprintf("%s is not allowed for the %s service", r.Method, route.Service),
		})
		return
	}

	pool, ok := snap.registry.Get(route.Service)
	if !ok {
		g.logger.Error("route has no service pool",
			observability.String("service", route.Service),
		)
		c.JSON(http.StatusInternalServerError, util.ErrorResponse{Error: "internal server error"})
		return
	}

	ctx := r.Context()
	inst, err := snap.selector.Select(ctx, pool)
	if err != nil {
		writeSelectError(c, route, err)
		return
	}

	out, err := snap.forwarder.Forward(ctx, route.Service, inst, r, match.ResourcePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, util.ErrorResponse{Error: err.Error()})
		return
	}

	if err := out.WriteTo(c.Writer); err != nil {
		g.logger.Debug("failed to write response to client",
			observability.String("service", route.Service),
			observability.Error(err),
		)
	}
	// gin treats a NoRoute handler that wrote no body as unhandled and
	// would replace an upstream 404 with its own page.
	c.Writer.WriteHeaderNow()
}

// writeSelectError answers 503 for an exhausted pool. A selection that
// ended because the client went away gets the same status with a
// different message.
func writeSelectError(c *gin.Context, route *router.Route, err error) {
	message := fmt.Sprintf("all %s servers are down", route.Service)
	if !backend.IsPoolExhausted(err) {
		message = "request cancelled"
	}
	c.JSON(http.StatusServiceUnavailable, util.ErrorResponse{
		Error:   route.Title + " service unavailable",
		Message: message,
	})
}
