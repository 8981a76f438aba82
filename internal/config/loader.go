package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// escapedDollar is a placeholder for "$$" while substituting variables.
const escapedDollar = "\x00ESCAPED_DOLLAR\x00"

// Loader handles configuration loading from files and readers.
type Loader struct {
	lookupEnv   func(string) (string, bool)
	strictField bool
}

// LoaderOption is a functional option for configuring the loader.
type LoaderOption func(*Loader)

// WithEnvLookup overrides the environment lookup used for ${VAR} substitution.
func WithEnvLookup(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookupEnv = lookup
	}
}

// WithStrictFields makes unknown YAML fields a load error.
func WithStrictFields(strict bool) LoaderOption {
	return func(l *Loader) {
		l.strictField = strict
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		lookupEnv:   os.LookupEnv,
		strictField: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadConfig loads configuration from a file path.
func LoadConfig(path string) (*GatewayConfig, error) {
	return NewLoader().Load(path)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*GatewayConfig, error) {
	return NewLoader().LoadFromReader(r)
}

// Load loads configuration from a file path.
func (l *Loader) Load(path string) (*GatewayConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return l.parseConfig(data)
}

// LoadFromReader loads configuration from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*GatewayConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return l.parseConfig(data)
}

// parseConfig parses YAML data into a GatewayConfig and applies defaults.
func (l *Loader) parseConfig(data []byte) (*GatewayConfig, error) {
	content := l.substituteEnvVars(string(data))

	decoder := yaml.NewDecoder(bytes.NewReader([]byte(content)))
	decoder.KnownFields(l.strictField)

	var cfg GatewayConfig
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ApplyDefaults(&cfg)

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values. "$$" produces a literal "$".
func (l *Loader) substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", escapedDollar)

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := l.lookupEnv(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, escapedDollar, "$")
}

// ResolveConfigPath resolves a configuration file path, checking the
// working directory, ./configs and /etc/poolgw in that order.
func ResolveConfigPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("config file not found: %s", path)
	}

	candidates := []string{
		path,
		filepath.Join("configs", path),
		filepath.Join(string(filepath.Separator), "etc", "poolgw", path),
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("config file not found: %s", path)
}
