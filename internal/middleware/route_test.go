package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vyrodovalexey/poolgw/internal/util"
)

func TestRouteTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolved string
		expected string
	}{
		{name: "service label", resolved: "menu", expected: "menu"},
		{name: "empty label falls back", resolved: "", expected: unknownRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			handler := RouteTag(func(*http.Request) string { return tt.resolved })(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					seen = util.RouteFromContext(r.Context())
				}),
			)

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/menu", nil))

			assert.Equal(t, tt.expected, seen)
		})
	}
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mark("outer"), mark("middle"), mark("inner"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "middle", "inner", "handler"}, order)
}
