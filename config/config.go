package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Inquiry       InquiryConfig
	ReCAPTCHA     ReCAPTCHAConfig
	LLM           LLMConfig
	MediaStorage  MediaStorageConfig
	Session       SessionConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL         string
	CACertPath  string
	MaxConns    int32
	MinConns    int32
	WorkOffline bool   // use the embedded SQLite store instead of PostgreSQL
	OfflinePath string // SQLite DSN for offline mode
}

// InquiryConfig configures the inquiry relay (Web3Forms-compatible endpoint)
type InquiryConfig struct {
	RelayURL          string
	RelayAccessKey    string
	FromName          string
	CreatedTriggerURL string
}

type ReCAPTCHAConfig struct {
	SecretKey string
}

type LLMConfig struct {
	Provider        string // gemini | anthropic
	Model           string
	GeminiAPIKey    string
	AnthropicAPIKey string
	MaxOutputTokens int
}

type MediaStorageConfig struct {
	AccessKeyID      string
	SecretAccessKey  string
	BucketName       string
	Endpoint         string
	Region           string
	URLExpiryMinutes int
}

type SessionConfig struct {
	JWTSecret    string
	JWTIssuer    string
	TTLHours     int
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

type CacheConfig struct {
	CatalogTTLSeconds int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://shabadpapers.com")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://shabadpapers.com,https://www.shabadpapers.com")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("DATABASE_CA_CERT", "")
	v.SetDefault("DB_WORK_OFFLINE", false)
	v.SetDefault("OFFLINE_DB_PATH", "file:shabad.db?_pragma=foreign_keys(1)")
	v.SetDefault("INQUIRY_RELAY_URL", "https://api.web3forms.com/submit")
	v.SetDefault("INQUIRY_FROM_NAME", "Shabad Papers Website")
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("LLM_MODEL", "") // provider default
	v.SetDefault("LLM_MAX_OUTPUT_TOKENS", 1024)
	v.SetDefault("MEDIA_STORAGE_REGION", "auto")
	v.SetDefault("MEDIA_URL_EXPIRY_MINUTES", 60)
	v.SetDefault("SESSION_JWT_ISSUER", "shabad-api")
	v.SetDefault("SESSION_TTL_HOURS", 24*30)
	v.SetDefault("SESSION_COOKIE_NAME", "shabad_session")
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("CATALOG_CACHE_TTL", 300)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "shabad-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "shabad-papers")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "shabad-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("DATABASE_URL"),
			CACertPath:  v.GetString("DATABASE_CA_CERT"),
			MaxConns:    10,
			MinConns:    1,
			WorkOffline: v.GetBool("DB_WORK_OFFLINE"),
			OfflinePath: v.GetString("OFFLINE_DB_PATH"),
		},
		Inquiry: InquiryConfig{
			RelayURL:          v.GetString("INQUIRY_RELAY_URL"),
			RelayAccessKey:    v.GetString("INQUIRY_RELAY_ACCESS_KEY"),
			FromName:          v.GetString("INQUIRY_FROM_NAME"),
			CreatedTriggerURL: v.GetString("INQUIRY_CREATED_TRIGGER_URL"),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_V2_SECRET_KEY"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString("LLM_PROVIDER")),
			Model:           v.GetString("LLM_MODEL"),
			GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
			MaxOutputTokens: v.GetInt("LLM_MAX_OUTPUT_TOKENS"),
		},
		MediaStorage: MediaStorageConfig{
			AccessKeyID:      v.GetString("MEDIA_STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey:  v.GetString("MEDIA_STORAGE_SECRET_ACCESS_KEY"),
			BucketName:       v.GetString("MEDIA_STORAGE_BUCKET_NAME"),
			Endpoint:         v.GetString("MEDIA_STORAGE_ENDPOINT"),
			Region:           v.GetString("MEDIA_STORAGE_REGION"),
			URLExpiryMinutes: v.GetInt("MEDIA_URL_EXPIRY_MINUTES"),
		},
		Session: SessionConfig{
			JWTSecret:    v.GetString("SESSION_JWT_SECRET"),
			JWTIssuer:    v.GetString("SESSION_JWT_ISSUER"),
			TTLHours:     v.GetInt("SESSION_TTL_HOURS"),
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieDomain: v.GetString("COOKIE_DOMAIN"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		Cache: CacheConfig{
			CatalogTTLSeconds: v.GetInt("CATALOG_CACHE_TTL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
// The inquiry relay key is intentionally optional here: a missing key is
// reported per submission as a configuration error.
func (c *Config) Validate() error {
	if !c.Database.WorkOffline && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when not in offline mode")
	}
	if c.Database.WorkOffline && c.Database.OfflinePath == "" {
		return fmt.Errorf("OFFLINE_DB_PATH is required in offline mode")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.Inquiry.RelayURL == "" {
		return fmt.Errorf("INQUIRY_RELAY_URL is required")
	}

	switch c.LLM.Provider {
	case "gemini", "anthropic":
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of gemini, anthropic (got %q)", c.LLM.Provider)
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// LLMAPIKey returns the key of the selected provider
func (c *Config) LLMAPIKey() string {
	if c.LLM.Provider == "anthropic" {
		return c.LLM.AnthropicAPIKey
	}
	return c.LLM.GeminiAPIKey
}

// MediaStorageEnabled reports whether catalog media keys can be presigned
func (c *Config) MediaStorageEnabled() bool {
	return c.MediaStorage.AccessKeyID != "" && c.MediaStorage.SecretAccessKey != "" && c.MediaStorage.BucketName != ""
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
