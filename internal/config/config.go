// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// DefaultPort is used when PORT is absent or not a valid port number.
const DefaultPort = 8080

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	// Port is kept as a string so a malformed value falls back to DefaultPort
	// instead of failing startup.
	Port string `env:"PORT"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Aggregation pipeline
	Sources           []string      `env:"SOURCES" envSeparator:"," envDefault:"catalog,experiences,games,user"`
	SortByPrice       bool          `env:"SORT_BY_PRICE" envDefault:"false"`
	DetailConcurrency int           `env:"DETAIL_CONCURRENCY" envDefault:"8"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	MaxPages          int           `env:"MAX_PAGES" envDefault:"20"`

	// Upstream endpoints. Overridable for proxies and tests.
	CatalogBaseURL string `env:"ROBLOX_CATALOG_URL" envDefault:"https://catalog.roblox.com"`
	GamesBaseURL   string `env:"ROBLOX_GAMES_URL" envDefault:"https://games.roblox.com"`
	APIsBaseURL    string `env:"ROBLOX_APIS_URL" envDefault:"https://apis.roblox.com"`

	// Credential for the privileged experiences listing. Optional.
	RobloxAPIKey string `env:"ROBLOX_API_KEY"`

	// Cache (Redis). Empty disables caching and rate limiting.
	RedisURL         string        `env:"REDIS_URL"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	CacheNegativeTTL time.Duration `env:"CACHE_NEGATIVE_TTL" envDefault:"15s"`

	// Rate limiting (per client IP, requires Redis)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Tracing. Empty disables the OTLP exporter.
	OTelEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ListenPort returns the configured port, or DefaultPort if PORT is absent
// or unparsable.
func (c *Config) ListenPort() int {
	port, err := strconv.ParseUint(strings.TrimSpace(c.Port), 10, 16)
	if err != nil || port == 0 {
		return DefaultPort
	}
	return int(port)
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// ExperiencesEnabled reports whether the privileged discovery credential is set.
func (c *Config) ExperiencesEnabled() bool {
	return strings.TrimSpace(c.RobloxAPIKey) != ""
}

// SourceOrder returns the normalized, de-duplicated source names.
func (c *Config) SourceOrder() []string {
	seen := make(map[string]bool, len(c.Sources))
	out := make([]string, 0, len(c.Sources))
	for _, name := range c.Sources {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = 1
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return cfg, nil
}
