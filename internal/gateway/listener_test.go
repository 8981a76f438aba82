package gateway

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

func TestNewListener_RequiresHandler(t *testing.T) {
	t.Parallel()

	_, err := NewListener(config.Listener{Name: "http"}, nil)
	assert.Error(t, err)
}

func TestListener_Address(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.Listener
		expected string
	}{
		{name: "explicit bind", cfg: config.Listener{Bind: "127.0.0.1", Port: 5000}, expected: "127.0.0.1:5000"},
		{name: "default bind", cfg: config.Listener{Port: 8080}, expected: "0.0.0.0:8080"},
		{name: "ipv6 bind", cfg: config.Listener{Bind: "::1", Port: 5000}, expected: "[::1]:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := NewListener(tt.cfg, http.NotFoundHandler())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, l.Address())
		})
	}
}

func TestListener_StartStop(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	l, err := NewListener(config.Listener{Name: "test", Bind: "127.0.0.1", Port: 0}, handler)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, l.Start(ctx))
	assert.True(t, l.IsRunning())
	assert.Error(t, l.Start(ctx))

	resp, err := http.Get("http://" + l.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, l.Stop(stopCtx))
	assert.False(t, l.IsRunning())
	assert.NoError(t, l.Stop(stopCtx))
}
