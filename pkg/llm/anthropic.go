package llm

import (
	"context"
	"fmt"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// Anthropic generates JSON with the Anthropic Messages API
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates an Anthropic generator. The SDK's automatic retries
// are disabled: one prompt is one upstream call.
func NewAnthropic(cfg Config) (*Anthropic, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(cfg.MaxOutputTokens),
	}, nil
}

// Name returns the provider name
func (a *Anthropic) Name() string {
	return ProviderAnthropic
}

// GenerateJSON sends prompt as a single user message and extracts the JSON
// object from the first text block of the reply
func (a *Anthropic) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		record(ctx, ProviderAnthropic, "error", start, zap.String("model", a.model), zap.Error(err))
		return "", fmt.Errorf("anthropic messages call: %w", err)
	}

	if len(msg.Content) == 0 {
		record(ctx, ProviderAnthropic, "empty", start, zap.String("model", a.model))
		return "", fmt.Errorf("anthropic returned an empty response")
	}

	record(ctx, ProviderAnthropic, "success", start, zap.String("model", a.model))
	return ExtractJSON(msg.Content[0].Text)
}
