package config

// CORSConfig represents CORS configuration.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled" json:"enabled"`
	AllowOrigins     []string `yaml:"allowOrigins,omitempty" json:"allowOrigins,omitempty"`
	AllowMethods     []string `yaml:"allowMethods,omitempty" json:"allowMethods,omitempty"`
	AllowHeaders     []string `yaml:"allowHeaders,omitempty" json:"allowHeaders,omitempty"`
	ExposeHeaders    []string `yaml:"exposeHeaders,omitempty" json:"exposeHeaders,omitempty"`
	MaxAge           int      `yaml:"maxAge,omitempty" json:"maxAge,omitempty"`
	AllowCredentials bool     `yaml:"allowCredentials,omitempty" json:"allowCredentials,omitempty"`
}

// CompressionConfig represents response compression configuration.
type CompressionConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Level is the flate compression level (1-9).
	Level int `yaml:"level,omitempty" json:"level,omitempty"`

	// ContentTypes overrides the list of compressible content types.
	ContentTypes []string `yaml:"contentTypes,omitempty" json:"contentTypes,omitempty"`
}
