package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8081",
			BaseURL:        "https://shabadpapers.com",
			AllowedOrigins: []string{"https://shabadpapers.com"},
		},
		Database: DatabaseConfig{
			URL: "postgres://localhost/shabad",
		},
		Inquiry: InquiryConfig{
			RelayURL: "https://api.web3forms.com/submit",
		},
		LLM: LLMConfig{
			Provider: "gemini",
		},
	}
}

// chdirTemp moves the test into a directory without a .env file
func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "production environment",
			config:   &Config{Server: ServerConfig{AppEnv: "production", GinMode: "release"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid online config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid offline config without database url",
			mutate: func(c *Config) {
				c.Database.URL = ""
				c.Database.WorkOffline = true
				c.Database.OfflinePath = "file::memory:"
			},
		},
		{
			name:   "relay access key is optional at load time",
			mutate: func(c *Config) { c.Inquiry.RelayAccessKey = "" },
		},
		{
			name:     "missing database url",
			mutate:   func(c *Config) { c.Database.URL = "" },
			errorMsg: "DATABASE_URL is required",
		},
		{
			name:     "missing port",
			mutate:   func(c *Config) { c.Server.Port = "" },
			errorMsg: "PORT is required",
		},
		{
			name:     "missing cors origins",
			mutate:   func(c *Config) { c.Server.AllowedOrigins = nil },
			errorMsg: "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name:     "missing relay url",
			mutate:   func(c *Config) { c.Inquiry.RelayURL = "" },
			errorMsg: "INQUIRY_RELAY_URL is required",
		},
		{
			name:     "unknown llm provider",
			mutate:   func(c *Config) { c.LLM.Provider = "openai" },
			errorMsg: "LLM_PROVIDER must be one of",
		},
		{
			name: "profiling without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			errorMsg: "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_WORK_OFFLINE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, []string{"https://shabadpapers.com", "https://www.shabadpapers.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://api.web3forms.com/submit", cfg.Inquiry.RelayURL)
	assert.Equal(t, "Shabad Papers Website", cfg.Inquiry.FromName)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 300, cfg.Cache.CatalogTTLSeconds)
	assert.True(t, cfg.Session.CookieSecure)
	assert.False(t, cfg.MediaStorageEnabled())
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "postgres://db/shabad")
	t.Setenv("ALLOWED_CORS_ORIGINS", " https://a.test , ,https://b.test")
	t.Setenv("INQUIRY_RELAY_ACCESS_KEY", "relay-key")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("MEDIA_STORAGE_ACCESS_KEY_ID", "id")
	t.Setenv("MEDIA_STORAGE_SECRET_ACCESS_KEY", "secret")
	t.Setenv("MEDIA_STORAGE_BUCKET_NAME", "catalog")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://db/shabad", cfg.Database.URL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "relay-key", cfg.Inquiry.RelayAccessKey)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLMAPIKey())
	assert.True(t, cfg.MediaStorageEnabled())
}

func TestLoad_ValidationFailure(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_WORK_OFFLINE", "false")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
