package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iaconlabs/warpcore/server"
)

const envPrefix = "WARPCORE_"

// Config is the CLI configuration file layout.
type Config struct {
	Server server.Config `yaml:"server"`
	// Router selects the route matcher: "chi" or "mux".
	Router string `yaml:"router"`
	// Engine selects the transport: "http", "gin", "echo" or "fiber".
	Engine       string          `yaml:"engine"`
	BasePath     string          `yaml:"basePath"`
	MaxBodyBytes int64           `yaml:"maxBodyBytes"`
	Workers      int             `yaml:"workers"`
	Metrics      MetricsConfig   `yaml:"metrics"`
	Tracing      TracingConfig   `yaml:"tracing"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// MetricsConfig controls the Prometheus filter and endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig controls the OpenTelemetry filter.
type TracingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TracerName string `yaml:"tracerName"`
}

// RateLimitConfig controls the per-client rate limit filter. A zero RPS
// disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func defaultConfig() Config {
	return Config{
		Server:   server.Config{Addr: ":8080"},
		Router:   "chi",
		Engine:   "http",
		BasePath: "/api",
		Metrics:  MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "warpcore"},
		Tracing:  TracingConfig{TracerName: "github.com/iaconlabs/warpcore"},
	}
}

// loadConfig reads path over the defaults, then applies WARPCORE_*
// environment overrides. An empty path skips the file.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		if err := server.LoadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("ADDR", &cfg.Server.Addr)
	str("ROUTER", &cfg.Router)
	str("ENGINE", &cfg.Engine)
	str("BASE_PATH", &cfg.BasePath)

	if v, ok := lookup(envPrefix + "WORKERS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		cfg.Workers = n
	}
	if v, ok := lookup(envPrefix + "RATE_LIMIT_RPS"); ok && strings.TrimSpace(v) != "" {
		rps, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT_RPS: %w", envPrefix, err)
		}
		cfg.RateLimit.RPS = rps
	}
	if v, ok := lookup(envPrefix + "METRICS"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			cfg.Metrics.Enabled = true
		case "0", "false", "no", "off":
			cfg.Metrics.Enabled = false
		}
	}
	return nil
}

func (c Config) validate() error {
	switch c.Router {
	case "chi", "mux":
	default:
		return fmt.Errorf("unknown router %q (want chi or mux)", c.Router)
	}
	switch c.Engine {
	case "http", "gin", "echo", "fiber":
	default:
		return fmt.Errorf("unknown engine %q (want http, gin, echo or fiber)", c.Engine)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive when rps is set")
	}
	return nil
}
