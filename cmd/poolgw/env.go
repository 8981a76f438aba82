package main

import "os"

// Environment variables used as flag fallbacks.
const (
	envConfigPath = "POOLGW_CONFIG_PATH"
	envLogLevel   = "POOLGW_LOG_LEVEL"
	envLogFormat  = "POOLGW_LOG_FORMAT"
)

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
