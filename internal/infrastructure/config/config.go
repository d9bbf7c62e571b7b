package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	API         APIConfig
	Log         LogConfig
	Cache       CacheConfig
	Draft       DraftConfig
	Permissions PermissionsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string // development or production
}

// APIConfig holds settings for the back-office REST API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// CacheConfig holds query cache settings
type CacheConfig struct {
	Backend string // memory or redis
	TTL     time.Duration
	Redis   RedisConfig
}

// RedisConfig holds Redis connection settings for the shared cache backend
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DraftConfig holds local draft store settings
type DraftConfig struct {
	Path string // sqlite database file
}

// PermissionsConfig holds the permissions poller settings
type PermissionsConfig struct {
	PollInterval time.Duration
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with ATELIER_ prefix (e.g. ATELIER_API_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/atelier")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Missing config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("ATELIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Cache: CacheConfig{
			Backend: v.GetString("cache.backend"),
			TTL:     v.GetDuration("cache.ttl"),
			Redis: RedisConfig{
				Host:     v.GetString("cache.redis.host"),
				Port:     v.GetInt("cache.redis.port"),
				Password: v.GetString("cache.redis.password"),
				DB:       v.GetInt("cache.redis.db"),
			},
		},
		Draft: DraftConfig{
			Path: v.GetString("draft.path"),
		},
		Permissions: PermissionsConfig{
			PollInterval: v.GetDuration("permissions.poll_interval"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers the built-in defaults
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "atelier-backoffice")
	v.SetDefault("app.env", "development")
	v.SetDefault("api.base_url", "http://localhost:8080/api/v1")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("draft.path", "atelier.db")
	v.SetDefault("permissions.poll_interval", time.Minute)
}

// Validate checks the configuration for values that would only fail later
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Draft.Path == "" {
		return fmt.Errorf("draft.path is required")
	}
	if c.Permissions.PollInterval <= 0 {
		return fmt.Errorf("permissions.poll_interval must be positive")
	}
	return nil
}
