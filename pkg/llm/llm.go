package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"go.uber.org/zap"
)

// Supported providers
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// DefaultMaxOutputTokens bounds a generation when the config leaves it unset
const DefaultMaxOutputTokens = 1024

// Generator turns a prompt into a JSON document. Implementations make a
// single upstream call: no retries, no streaming.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Config selects and configures a provider
type Config struct {
	Provider        string
	Model           string
	APIKey          string
	MaxOutputTokens int
	// BaseURL overrides the provider endpoint (proxies, tests)
	BaseURL string
}

// New builds the generator of the configured provider
func New(ctx context.Context, cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", cfg.Provider)
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		return NewGemini(ctx, cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// ExtractJSON returns the span between the first '{' and the last '}'.
// Models sometimes wrap their answer in prose or code fences.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

func record(ctx context.Context, provider, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.UpstreamRequestDuration.WithLabelValues("llm_"+provider, status).Observe(duration)
	logger.LogAPICall(ctx, "llm_"+provider, "generate", status, duration, fields...)
}
