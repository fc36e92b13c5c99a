// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
// Every variable is optional; the defaults reproduce the stock demo setup.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
)

// Log holds logging settings shared by both binaries.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`

	// Source adds the emitting file and line to every log line.
	Source bool `env:"LOG_SOURCE" envDefault:"true"`

	// SpanEvents logs a debug event whenever a span is closed.
	SpanEvents bool `env:"LOG_SPAN_EVENTS" envDefault:"false"`
}

// Config holds the API server configuration.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppHost string `env:"APP_HOST" envDefault:"::1"`
	AppPort int    `env:"APP_PORT" envDefault:"3000"`

	Log Log

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Exposes GET /metrics when enabled.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Demo holds the configuration of the standalone tracing program.
type Demo struct {
	Log Log

	// WorkDuration is how long the simulated computation blocks.
	WorkDuration time.Duration `env:"DEMO_WORK_DURATION" envDefault:"5s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Addr returns the listen address, bracketing IPv6 hosts.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.AppPort < 0 || cfg.AppPort > 65535 {
		return nil, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	return cfg, nil
}

// LoadDemo parses environment variables for the tracing program.
func LoadDemo() (*Demo, error) {
	cfg := &Demo{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse demo config: %w", err)
	}
	if cfg.WorkDuration < 0 {
		return nil, fmt.Errorf("DEMO_WORK_DURATION must not be negative, got %s", cfg.WorkDuration)
	}
	return cfg, nil
}
