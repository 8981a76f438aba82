package router

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

func defaultRouter(t *testing.T) *Router {
	t.Helper()
	cfg := config.DefaultConfig()
	r, err := New(cfg.Spec.Services, cfg.Spec.StripPrefix)
	require.NoError(t, err)
	return r
}

func TestRouter_Match(t *testing.T) {
	t.Parallel()

	r := defaultRouter(t)

	tests := []struct {
		path     string
		service  string
		resource string
		noMatch  bool
	}{
		{path: "/api/menu", service: "menu", resource: "/menu"},
		{path: "/api/menu/", service: "menu", resource: "/menu/"},
		{path: "/api/menu/3", service: "menu", resource: "/menu/3"},
		{path: "/api/orders", service: "order", resource: "/orders"},
		{path: "/api/orders/17/items", service: "order", resource: "/orders/17/items"},
		{path: "/api/users", service: "user", resource: "/users"},
		{path: "/api/menuitems", noMatch: true},
		{path: "/api", noMatch: true},
		{path: "/", noMatch: true},
		{path: "/menu", noMatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			m, ok := r.Match(tt.path)
			if tt.noMatch {
				assert.False(t, ok)
				assert.Nil(t, m)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.service, m.Route.Service)
			assert.Equal(t, tt.resource, m.ResourcePath)
		})
	}
}

func TestRouter_MatchURL_KeepsEscapes(t *testing.T) {
	t.Parallel()

	r, err := New([]config.ServiceConfig{
		{Name: "menu", Prefix: "/api/menu", Instances: []string{"http://127.0.0.1:5001"}},
		{Name: "special", Prefix: "/api/daily specials", Instances: []string{"http://127.0.0.1:5004"}},
	}, "/api")
	require.NoError(t, err)

	tests := []struct {
		target   string
		service  string
		resource string
	}{
		{target: "/api/menu/a%2Fb?x=1", service: "menu", resource: "/menu/a%2Fb"},
		{target: "/api/menu/nasi%20goreng", service: "menu", resource: "/menu/nasi%20goreng"},
		{target: "/api/menu/3", service: "menu", resource: "/menu/3"},
		{target: "/api/daily%20specials/a%2Fb", service: "special", resource: "/daily%20specials/a%2Fb"},
		{target: "/api/%6Denu/a%2Fb", service: "menu", resource: "/menu/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			u, err := url.Parse(tt.target)
			require.NoError(t, err)

			m, ok := r.MatchURL(u)
			require.True(t, ok)
			assert.Equal(t, tt.service, m.Route.Service)
			assert.Equal(t, tt.resource, m.ResourcePath)
		})
	}

	u, err := url.Parse("/api/menus/a%2Fb")
	require.NoError(t, err)
	_, ok := r.MatchURL(u)
	assert.False(t, ok)
}

func TestRouter_LongestPrefixWins(t *testing.T) {
	t.Parallel()

	r, err := New([]config.ServiceConfig{
		{Name: "menu", Prefix: "/api/menu"},
		{Name: "specials", Prefix: "/api/menu/specials", Rewrite: "/today"},
		{Name: "catchall", Prefix: "/"},
	}, "/api")
	require.NoError(t, err)

	m, ok := r.Match("/api/menu/specials/5")
	require.True(t, ok)
	assert.Equal(t, "specials", m.Route.Service)
	assert.Equal(t, "/today/5", m.ResourcePath)

	m, ok = r.Match("/api/menu/5")
	require.True(t, ok)
	assert.Equal(t, "menu", m.Route.Service)

	m, ok = r.Match("/static/logo.png")
	require.True(t, ok)
	assert.Equal(t, "catchall", m.Route.Service)
	assert.Equal(t, "/static/logo.png", m.ResourcePath)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "specials", routes[0].Service)
	assert.Equal(t, "catchall", routes[2].Service)
}

func TestRoute_ResourcePath_Rewrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		svc    config.ServiceConfig
		strip  string
		path   string
		expect string
	}{
		{
			name:   "prefix equals strip prefix",
			svc:    config.ServiceConfig{Name: "root", Prefix: "/api"},
			strip:  "/api",
			path:   "/api",
			expect: "/",
		},
		{
			name:   "strip prefix not on segment boundary",
			svc:    config.ServiceConfig{Name: "apix", Prefix: "/apix/menu"},
			strip:  "/api",
			path:   "/apix/menu/1",
			expect: "/apix/menu/1",
		},
		{
			name:   "explicit rewrite",
			svc:    config.ServiceConfig{Name: "order", Prefix: "/api/orders", Rewrite: "/v2/orders/"},
			strip:  "/api",
			path:   "/api/orders/9",
			expect: "/v2/orders/9",
		},
		{
			name:   "rewrite to root",
			svc:    config.ServiceConfig{Name: "user", Prefix: "/api/users", Rewrite: "/"},
			strip:  "/api",
			path:   "/api/users",
			expect: "/",
		},
		{
			name:   "no strip prefix",
			svc:    config.ServiceConfig{Name: "menu", Prefix: "/api/menu"},
			strip:  "",
			path:   "/api/menu/1",
			expect: "/api/menu/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New([]config.ServiceConfig{tt.svc}, tt.strip)
			require.NoError(t, err)

			m, ok := r.Match(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.expect, m.ResourcePath)
		})
	}
}

func TestRoute_Methods(t *testing.T) {
	t.Parallel()

	r, err := New([]config.ServiceConfig{
		{Name: "menu", Prefix: "/api/menu"},
		{Name: "order", Prefix: "/api/orders", Methods: []string{"get", "POST", "post"}},
	}, "/api")
	require.NoError(t, err)

	menu, ok := r.Route("menu")
	require.True(t, ok)
	for _, m := range []string{"GET", "POST", "PUT", "DELETE"} {
		assert.True(t, menu.Allows(m), m)
	}
	assert.False(t, menu.Allows("PATCH"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", menu.Allow())

	order, ok := r.Route("order")
	require.True(t, ok)
	assert.True(t, order.Allows("POST"))
	assert.False(t, order.Allows("DELETE"))
	assert.Equal(t, "GET, POST, OPTIONS", order.Allow())

	_, ok = r.Route("payments")
	assert.False(t, ok)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New([]config.ServiceConfig{{Name: "menu", Prefix: "menu"}}, "/api")
	assert.Error(t, err)

	_, err = New([]config.ServiceConfig{
		{Name: "menu", Prefix: "/api/menu"},
		{Name: "food", Prefix: "/api/menu/"},
	}, "/api")
	assert.ErrorContains(t, err, "already used")

	_, err = New([]config.ServiceConfig{
		{Name: "menu", Prefix: "/api/menu"},
		{Name: "menu", Prefix: "/api/food"},
	}, "/api")
	assert.ErrorContains(t, err, "duplicate service")
}

func TestRoute_Title(t *testing.T) {
	t.Parallel()

	r := defaultRouter(t)
	route, ok := r.Route("user")
	require.True(t, ok)
	assert.Equal(t, "User", route.Title)
}
