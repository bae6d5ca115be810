package ratelimit

import (
	"time"

	"github.com/jonathan/ad-quality/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (prefix match when it ends in "/")
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key groups requests sharing a bucket: prefix configs share one bucket across all paths.
func (c *EndpointConfig) key(path string) string {
	if c.Path != "" {
		return c.Path
	}
	return path
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := config.EnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    config.EnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   config.EnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: config.EnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     config.EnvDuration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       config.EnvList("RATE_LIMIT_WHITELIST"),
		Blacklist:       config.EnvList("RATE_LIMIT_BLACKLIST"),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls and batches
		{Path: "/v1/alternatives", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/v1/evaluate", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		// Rule writes
		{Path: "/v1/entities/", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/v1/entities/", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},
	}
}
