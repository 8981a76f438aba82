package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates gateway configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig validates a gateway configuration.
func ValidateConfig(config *GatewayConfig) error {
	v := NewValidator()
	return v.Validate(config)
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *GatewayConfig) error {
	v.errors = make(ValidationErrors, 0)

	if config == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateRoot(config)
	v.validateMetadata(&config.Metadata)
	v.validateSpec(&config.Spec)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateRoot(config *GatewayConfig) {
	if config.APIVersion == "" {
		v.addError("apiVersion", "apiVersion is required")
	} else if !strings.HasPrefix(config.APIVersion, APIVersionPrefix) {
		v.addError("apiVersion", fmt.Sprintf("apiVersion must start with '%s'", APIVersionPrefix))
	}

	if config.Kind == "" {
		v.addError("kind", "kind is required")
	} else if config.Kind != KindGateway {
		v.addError("kind", fmt.Sprintf("kind must be '%s'", KindGateway))
	}
}

func (v *Validator) validateMetadata(metadata *Metadata) {
	if metadata.Name == "" {
		v.addError("metadata.name", "name is required")
	}
}

func (v *Validator) validateSpec(spec *GatewaySpec) {
	v.validateListener(&spec.Listener, "spec.listener")

	if spec.StripPrefix != "" && !strings.HasPrefix(spec.StripPrefix, "/") {
		v.addError("spec.stripPrefix", "stripPrefix must start with '/'")
	}

	v.validateTimeouts(&spec.Timeouts, "spec.timeouts")
	v.validateHealthCheck(&spec.HealthCheck, "spec.healthCheck")
	v.validateServices(spec.Services)

	if spec.ProbeCache.IsEnabled() {
		if spec.ProbeCache.FailureThreshold < 1 {
			v.addError("spec.probeCache.failureThreshold", "failureThreshold must be at least 1")
		}
	}

	if spec.ConnectionPool != nil {
		v.validateConnectionPool(spec.ConnectionPool, "spec.connectionPool")
	}

	if spec.CORS != nil {
		v.validateCORS(spec.CORS, "spec.cors")
	}

	if spec.Compression != nil && spec.Compression.Enabled {
		if spec.Compression.Level < 1 || spec.Compression.Level > 9 {
			v.addError("spec.compression.level", "level must be between 1 and 9")
		}
	}

	if spec.Observability != nil {
		v.validateObservability(spec.Observability, "spec.observability")
	}
}

func (v *Validator) validateListener(listener *Listener, path string) {
	if listener.Port < 1 || listener.Port > 65535 {
		v.addError(path+".port", fmt.Sprintf("port must be between 1 and 65535, got %d", listener.Port))
	}
	if listener.Bind != "" && net.ParseIP(listener.Bind) == nil {
		v.addError(path+".bind", fmt.Sprintf("invalid IP address: %s", listener.Bind))
	}
}

func (v *Validator) validateTimeouts(t *Timeouts, path string) {
	if t.SelectProbe > 0 && t.Forward > 0 && t.Forward <= t.SelectProbe {
		v.addError(path+".forward", "forward timeout must be greater than selectProbe timeout")
	}
}

func (v *Validator) validateHealthCheck(hc *HealthCheck, path string) {
	if hc.Path != "" && !strings.HasPrefix(hc.Path, "/") {
		v.addError(path+".path", "path must start with '/'")
	}
	switch hc.Mode {
	case "", HealthModeAny, HealthModeRepresentative:
	default:
		v.addError(path+".mode", fmt.Sprintf("mode must be '%s' or '%s'", HealthModeAny, HealthModeRepresentative))
	}
}

func (v *Validator) validateServices(services []ServiceConfig) {
	if len(services) == 0 {
		v.addError("spec.services", "at least one service is required")
		return
	}

	names := make(map[string]bool)
	prefixes := make(map[string]string)

	for i := range services {
		svc := &services[i]
		path := fmt.Sprintf("spec.services[%d]", i)

		switch {
		case svc.Name == "":
			v.addError(path+".name", "service name is required")
		case names[svc.Name]:
			v.addError(path+".name", fmt.Sprintf("duplicate service name: %s", svc.Name))
		default:
			names[svc.Name] = true
		}

		v.validateServicePrefix(svc, path, prefixes)

		if svc.Rewrite != "" && !strings.HasPrefix(svc.Rewrite, "/") {
			v.addError(path+".rewrite", "rewrite must start with '/'")
		}

		for j, m := range svc.Methods {
			if strings.TrimSpace(m) == "" {
				v.addError(fmt.Sprintf("%s.methods[%d]", path, j), "method must not be empty")
			}
		}

		v.validateInstances(svc.Instances, path+".instances")
	}
}

func (v *Validator) validateServicePrefix(svc *ServiceConfig, path string, prefixes map[string]string) {
	prefix := svc.Prefix
	switch {
	case prefix == "":
		v.addError(path+".prefix", "prefix is required")
		return
	case !strings.HasPrefix(prefix, "/"):
		v.addError(path+".prefix", "prefix must start with '/'")
		return
	case prefix != "/" && strings.HasSuffix(prefix, "/"):
		v.addError(path+".prefix", "prefix must not end with '/'")
		return
	}

	if owner, exists := prefixes[prefix]; exists {
		v.addError(path+".prefix", fmt.Sprintf("prefix %s already used by service %s", prefix, owner))
		return
	}
	prefixes[prefix] = svc.Name
}

func (v *Validator) validateInstances(instances []string, path string) {
	if len(instances) == 0 {
		v.addError(path, "at least one instance is required")
		return
	}

	seen := make(map[string]bool)
	for i, raw := range instances {
		instPath := fmt.Sprintf("%s[%d]", path, i)
		u, err := url.Parse(raw)
		if err != nil {
			v.addError(instPath, fmt.Sprintf("invalid URL: %v", err))
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			v.addError(instPath, "instance must be an absolute http or https URL")
			continue
		}
		if u.Host == "" {
			v.addError(instPath, "instance URL must include a host")
			continue
		}
		if u.RawQuery != "" || u.Fragment != "" {
			v.addError(instPath, "instance URL must not carry a query or fragment")
			continue
		}
		if seen[raw] {
			v.addError(instPath, fmt.Sprintf("duplicate instance: %s", raw))
			continue
		}
		seen[raw] = true
	}
}

func (v *Validator) validateConnectionPool(cp *ConnectionPoolConfig, path string) {
	if cp.MaxIdleConns < 0 {
		v.addError(path+".maxIdleConns", "maxIdleConns must be non-negative")
	}
	if cp.MaxIdleConnsPerHost < 0 {
		v.addError(path+".maxIdleConnsPerHost", "maxIdleConnsPerHost must be non-negative")
	}
	if cp.MaxConnsPerHost < 0 {
		v.addError(path+".maxConnsPerHost", "maxConnsPerHost must be non-negative")
	}
}

func (v *Validator) validateCORS(cors *CORSConfig, path string) {
	if cors.MaxAge < 0 {
		v.addError(path+".maxAge", "maxAge must be non-negative")
	}
	if cors.AllowCredentials {
		for _, origin := range cors.AllowOrigins {
			if origin == "*" {
				v.addError(path+".allowOrigins", "wildcard origin cannot be combined with allowCredentials")
				break
			}
		}
	}
}

// reservedHealthPath is served by the gateway itself.
const reservedHealthPath = "/health"

func (v *Validator) validateObservability(obs *ObservabilityConfig, path string) {
	if obs.Metrics != nil && obs.Metrics.Enabled {
		switch mp := obs.Metrics.Path; {
		case mp != "" && !strings.HasPrefix(mp, "/"):
			v.addError(path+".metrics.path", "path must start with '/'")
		case mp == "/" || mp == reservedHealthPath:
			v.addError(path+".metrics.path", "path conflicts with a gateway endpoint")
		}
	}

	if obs.Tracing != nil {
		if obs.Tracing.SamplingRate < 0 || obs.Tracing.SamplingRate > 1 {
			v.addError(path+".tracing.samplingRate", "samplingRate must be between 0 and 1")
		}
		if obs.Tracing.Enabled && obs.Tracing.OTLPEndpoint == "" {
			v.addError(path+".tracing.otlpEndpoint", "otlpEndpoint is required when tracing is enabled")
		}
	}

	if obs.Logging != nil {
		switch strings.ToLower(obs.Logging.Level) {
		case "", "debug", "info", "warn", "error":
		default:
			v.addError(path+".logging.level", "level must be debug, info, warn, or error")
		}
		switch obs.Logging.Format {
		case "", "json", "console":
		default:
			v.addError(path+".logging.format", "format must be json or console")
		}
	}
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}
