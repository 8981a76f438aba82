package config

// Listener represents the HTTP listener configuration.
type Listener struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Bind string `yaml:"bind,omitempty" json:"bind,omitempty"`
	Port int    `yaml:"port,omitempty" json:"port,omitempty"`

	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`

	// ReadHeaderTimeout is the maximum duration for reading request headers.
	ReadHeaderTimeout Duration `yaml:"readHeaderTimeout,omitempty" json:"readHeaderTimeout,omitempty"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// It must leave room for instance selection plus the forward timeout.
	WriteTimeout Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`

	// IdleTimeout is the maximum duration to wait for the next request when keep-alives are enabled.
	IdleTimeout Duration `yaml:"idleTimeout,omitempty" json:"idleTimeout,omitempty"`

	// ShutdownTimeout bounds graceful draining of in-flight requests.
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
}
