package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "atelier-backoffice", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, time.Minute, cfg.Permissions.PollInterval)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ATELIER_APP_ENV", "production")
	t.Setenv("ATELIER_API_BASE_URL", "https://api.atelier.example/api/v1")
	t.Setenv("ATELIER_LOG_LEVEL", "warn")
	t.Setenv("ATELIER_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "https://api.atelier.example/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:         APIConfig{BaseURL: "http://localhost:8080", Timeout: time.Second},
			Cache:       CacheConfig{Backend: "memory", TTL: time.Minute},
			Draft:       DraftConfig{Path: "atelier.db"},
			Permissions: PermissionsConfig{PollInterval: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "base_url"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "timeout"},
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "ttl"},
		{"missing draft path", func(c *Config) { c.Draft.Path = "" }, "draft.path"},
		{"zero poll interval", func(c *Config) { c.Permissions.PollInterval = 0 }, "poll_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
