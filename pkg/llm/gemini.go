package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini generates JSON with Google's Gemini API
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGemini creates a Gemini generator
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &Gemini{client: client, model: model, maxTokens: int32(cfg.MaxOutputTokens)}, nil
}

// Name returns the provider name
func (g *Gemini) Name() string {
	return ProviderGemini
}

// GenerateJSON asks the model for a JSON response to prompt
func (g *Gemini) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  g.maxTokens,
	})
	if err != nil {
		record(ctx, ProviderGemini, "error", start, zap.String("model", g.model), zap.Error(err))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		record(ctx, ProviderGemini, "empty", start, zap.String("model", g.model))
		return "", fmt.Errorf("gemini returned an empty response")
	}

	record(ctx, ProviderGemini, "success", start, zap.String("model", g.model))
	return ExtractJSON(text)
}
