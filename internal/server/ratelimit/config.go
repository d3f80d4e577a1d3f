package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v6"
)

// EndpointConfig is the budget of one route.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration // refill period of Limit tokens
	Burst  int           // bucket capacity; defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool             `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	DefaultLimit    int              `env:"RATE_LIMIT_DEFAULT_LIMIT" envDefault:"1000"`
	DefaultWindow   time.Duration    `env:"RATE_LIMIT_DEFAULT_WINDOW" envDefault:"1m"`
	GenerateLimit   int              `env:"RATE_LIMIT_GENERATE_LIMIT" envDefault:"10"`
	GenerateBurst   int              `env:"RATE_LIMIT_GENERATE_BURST" envDefault:"3"`
	CleanupInterval time.Duration    `env:"RATE_LIMIT_CLEANUP_INTERVAL" envDefault:"5m"`
	IdleTimeout     time.Duration    `env:"RATE_LIMIT_IDLE_TIMEOUT" envDefault:"1h"`
	Whitelist       []string         `env:"RATE_LIMIT_WHITELIST" envSeparator:","`
	Blacklist       []string         `env:"RATE_LIMIT_BLACKLIST" envSeparator:","`
	EndpointConfigs []EndpointConfig `env:"-"`
}

// LoadConfig reads the rate limiting configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rate limit configuration: %w", err)
	}
	cfg.EndpointConfigs = DefaultEndpointConfigs(cfg.GenerateLimit, cfg.GenerateBurst)
	return &cfg, nil
}

// DefaultEndpointConfigs returns the per-route budgets. Generation runs an external
// compiler and gets the strictest budget; reads fall through to the default.
func DefaultEndpointConfigs(generateLimit, generateBurst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/cv/generate", Method: http.MethodPost, Limit: generateLimit, Window: time.Minute, Burst: generateBurst},
	}
}
