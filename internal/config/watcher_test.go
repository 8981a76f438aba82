package config

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/poolgw/internal/observability"
)

const invalidConfigYAML = `
apiVersion: gateway.poolgw.io/v1
kind: Gateway
metadata:
  name: test-gateway
spec:
  services:
    - name: menu
      prefix: /api/menu
      instances: []
`

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, t.TempDir(), validConfigYAML)
	logger := observability.NopLogger()

	watcher, err := NewWatcher(path, func(*GatewayConfig) {},
		WithDebounceDelay(200*time.Millisecond),
		WithLogger(logger),
		WithErrorCallback(func(error) {}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	assert.Equal(t, path, watcher.Path())
	assert.Equal(t, 200*time.Millisecond, watcher.debounceDelay)
	assert.Equal(t, logger, watcher.logger)
	assert.NotNil(t, watcher.errorCallback)
	assert.Nil(t, watcher.GetLastConfig())
}

func TestWatcher_Start(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), validConfigYAML)

	watcher, err := NewWatcher(path, nil, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, watcher.Start(ctx))
	// Starting twice is a no-op.
	require.NoError(t, watcher.Start(ctx))

	cfg := watcher.GetLastConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "test-gateway", cfg.Metadata.Name)

	require.NoError(t, watcher.Stop())
}

func TestWatcher_Start_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid config", content: invalidConfigYAML},
		{name: "unparseable config", content: "spec: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, t.TempDir(), tt.content)

			watcher, err := NewWatcher(path, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = watcher.Stop() })

			assert.Error(t, watcher.Start(context.Background()))
			assert.Nil(t, watcher.GetLastConfig())
		})
	}
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), validConfigYAML)

	var reloaded atomic.Pointer[GatewayConfig]
	watcher, err := NewWatcher(path, func(cfg *GatewayConfig) {
		reloaded.Store(cfg)
	}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Stop() }()

	updated := strings.Replace(validConfigYAML, "test-gateway", "reloaded-gateway", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		cfg := reloaded.Load()
		return cfg != nil && cfg.Metadata.Name == "reloaded-gateway"
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "reloaded-gateway", watcher.GetLastConfig().Metadata.Name)
}

func TestWatcher_RejectsInvalidReload(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), validConfigYAML)

	var callbacks atomic.Int32
	var reloadErrors atomic.Int32
	watcher, err := NewWatcher(path,
		func(*GatewayConfig) { callbacks.Add(1) },
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(error) { reloadErrors.Add(1) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte(invalidConfigYAML), 0o600))

	require.Eventually(t, func() bool {
		return reloadErrors.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, int32(0), callbacks.Load())
	assert.Equal(t, "test-gateway", watcher.GetLastConfig().Metadata.Name)
}

func TestWatcher_ForceReload(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, t.TempDir(), validConfigYAML)

	var calls atomic.Int32
	watcher, err := NewWatcher(path, func(*GatewayConfig) { calls.Add(1) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	require.NoError(t, watcher.ForceReload())
	assert.Equal(t, int32(1), calls.Load())
	require.NotNil(t, watcher.GetLastConfig())

	require.NoError(t, os.WriteFile(path, []byte(invalidConfigYAML), 0o600))
	assert.Error(t, watcher.ForceReload())
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, t.TempDir(), validConfigYAML)

	watcher, err := NewWatcher(path, nil)
	require.NoError(t, err)
	assert.NoError(t, watcher.Stop())
}
