package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Tracking  TrackingConfig  `mapstructure:"tracking"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// TrackingConfig controls the fix store and route registry.
type TrackingConfig struct {
	// RoutesFile is the JSON manifest mapping vehicles to waypoint lists.
	RoutesFile string `mapstructure:"routes_file"`
	// FreshnessWindowSeconds is the age beyond which a stored fix is
	// reported as stale rather than current.
	FreshnessWindowSeconds int `mapstructure:"freshness_window_seconds"`
	// ActiveCacheTTLSeconds is how long the active-fleet snapshot may be
	// served from cache.
	ActiveCacheTTLSeconds int `mapstructure:"active_cache_ttl_seconds"`
}

// FreshnessWindow returns the freshness window as a duration.
func (t TrackingConfig) FreshnessWindow() time.Duration {
	return time.Duration(t.FreshnessWindowSeconds) * time.Second
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("tracking.routes_file", "configs/routes.json")
	v.SetDefault("tracking.freshness_window_seconds", 300)
	v.SetDefault("tracking.active_cache_ttl_seconds", 5)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: BUSTRACK_TRACKING_ROUTES_FILE → tracking.routes_file
	v.SetEnvPrefix("BUSTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Tracking.RoutesFile == "" {
		errs = append(errs, "tracking.routes_file is required")
	}
	if c.Tracking.FreshnessWindowSeconds <= 0 {
		errs = append(errs, "tracking.freshness_window_seconds must be positive")
	}
	if c.Tracking.ActiveCacheTTLSeconds < 0 {
		errs = append(errs, "tracking.active_cache_ttl_seconds must not be negative")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
