package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigTemplate = `apiVersion: gateway.poolgw.io/v1
kind: Gateway
metadata:
  name: cli-test
spec:
  listener:
    bind: 127.0.0.1
    port: 5000
  timeouts:
    selectProbe: 500ms
    aggregateProbe: 500ms
    forward: 2s
  services:
    - name: menu
      prefix: /api/menu
      instances: [%q]
    - name: order
      prefix: /api/orders
      methods: [GET, POST]
      instances: [%q]
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func healthServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "poolgw version "+Version)
	assert.Contains(t, out, "Git commit: "+GitCommit)
}

func TestValidateCmd_Valid(t *testing.T) {
	path := writeTestConfig(t, fmt.Sprintf(testConfigTemplate, "http://127.0.0.1:5001", "http://127.0.0.1:5002"))

	out, err := runCLI(t, "validate", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "/api/menu")
	assert.Contains(t, out, "/orders")
	assert.Contains(t, out, "GET,POST")
	assert.Contains(t, out, "http://127.0.0.1:5002")
}

func TestValidateCmd_Invalid(t *testing.T) {
	path := writeTestConfig(t, fmt.Sprintf(testConfigTemplate, "ftp://127.0.0.1:5001", "http://127.0.0.1:5002"))

	_, err := runCLI(t, "validate", "--config", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateCmd_MissingFile(t *testing.T) {
	_, err := runCLI(t, "validate", "--config", filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestProbeCmd_Healthy(t *testing.T) {
	menu := healthServer(t, http.StatusOK)
	order := healthServer(t, http.StatusOK)
	path := writeTestConfig(t, fmt.Sprintf(testConfigTemplate, menu.URL, order.URL))

	out, err := runCLI(t, "probe", "--config", path, "--log-level", "error")

	require.NoError(t, err)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "healthy", report["status"])
	assert.Equal(t, map[string]interface{}{"menu": true, "order": true}, report["services"])
}

func TestProbeCmd_DegradedExitsNonZero(t *testing.T) {
	menu := healthServer(t, http.StatusOK)
	order := healthServer(t, http.StatusServiceUnavailable)
	path := writeTestConfig(t, fmt.Sprintf(testConfigTemplate, menu.URL, order.URL))

	out, err := runCLI(t, "probe", "--config", path, "--log-level", "error")

	var exit *exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, out, `"degraded"`)
	assert.Contains(t, out, `"order": false`)
}

func TestRootFlags_EnvFallback(t *testing.T) {
	t.Setenv(envConfigPath, "/etc/poolgw/custom.yaml")
	t.Setenv(envLogLevel, "debug")

	cmd := newRootCmd()

	assert.Equal(t, "/etc/poolgw/custom.yaml", cmd.PersistentFlags().Lookup("config").DefValue)
	assert.Equal(t, "debug", cmd.PersistentFlags().Lookup("log-level").DefValue)
	assert.Equal(t, "", cmd.PersistentFlags().Lookup("log-format").DefValue)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("POOLGW_TEST_VALUE", "set")

	assert.Equal(t, "set", getEnvOrDefault("POOLGW_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("POOLGW_TEST_UNSET", "fallback"))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := newLogger(&rootFlags{logLevel: "verbose"}, nil, "")
	assert.Error(t, err)
}
