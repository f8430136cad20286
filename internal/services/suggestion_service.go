package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/pkg/circuitbreaker"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/llm"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// MsgSuggestionFailed is all the user learns about an upstream failure
const MsgSuggestionFailed = "Failed to get AI suggestion. Please try again later."

// ProductCatalogForAI describes the product range to the model
const ProductCatalogForAI = `
- Premium Glossy Art Paper (130-300 GSM): Ideal for high-quality magazines, brochures, and photo prints. High brightness and smooth surface.
- Coated Matte Finish Board (200-400 GSM): Perfect for premium packaging, business cards, and book covers. Offers a non-glare, elegant finish.
- 100% Recycled Kraft Paper (60-180 GSM): Eco-friendly option for bags, wrapping, and void-fill. Made from post-consumer waste. FSC Certified.
- Uncoated Woodfree Paper (70-120 GSM): Excellent for notebooks, letterheads, and general office printing. Good writability and printability.
- Thermal Paper Rolls (55-80 GSM): For POS receipts and labels. BPA-free options available for enhanced safety.
- Specialty Paper (Custom): Custom solutions for unique needs, including water-resistant, tear-proof, and food-grade papers.
`

var suggestionPrompt = template.Must(template.New("paper-suggestion").Parse(
	`You are an expert paper consultant at Shabad Papers. A user is looking for paper suggestions based on their specific needs. Consider the user's requirements and available product catalog to find the best matches.

User Requirements:
- Paper Type: {{.PaperType}}
- Quantity: {{.Quantity}}
- Use Case: {{.UseCase}}
- Finish: {{.Finish}}
- Sustainability Standards: {{.SustainabilityStandards}}

Product Catalog:
{{.ProductCatalog}}

Based on these requirements and the available product catalog, suggest the best paper solutions from Shabad Papers. Explain your reasoning for each suggestion.

Respond in the following format:
{
  "suggestions": ["Paper Suggestion 1", "Paper Suggestion 2", ...],
  "reasoning": "Explanation of why these suggestions are a good fit."
}
`))

// SuggestionService wraps the paper-suggestion prompt
type SuggestionService struct {
	generator llm.Generator
	breaker   *gobreaker.CircuitBreaker
	catalog   string
}

// NewSuggestionService creates a new suggestion service. A nil generator
// leaves the feature configured off: every request fails with ErrSuggestion.
func NewSuggestionService(generator llm.Generator) *SuggestionService {
	name := "llm"
	if generator != nil {
		name = "llm_" + generator.Name()
	}
	return &SuggestionService{
		generator: generator,
		breaker:   circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig(name)),
		catalog:   ProductCatalogForAI,
	}
}

// GetPaperSuggestion asks the text generator once for paper suggestions
func (s *SuggestionService) GetPaperSuggestion(ctx context.Context, req *models.SuggestionRequest) (*models.SuggestionResult, error) {
	input, err := s.promptInput(req)
	if err != nil {
		metrics.SuggestionRequests.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if s.generator == nil {
		metrics.SuggestionRequests.WithLabelValues("config_error").Inc()
		logger.Error("AI suggestion requested but no LLM provider is configured")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestion, apperrors.ConfigurationError("LLM API key"))
	}

	prompt, err := BuildSuggestionPrompt(input)
	if err != nil {
		metrics.SuggestionRequests.WithLabelValues("error").Inc()
		logger.Error("Failed to render suggestion prompt", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestion, err)
	}

	raw, err := circuitbreaker.Execute(ctx, s.breaker, func(ctx context.Context) (string, error) {
		return s.generator.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		metrics.SuggestionRequests.WithLabelValues("upstream_error").Inc()
		logger.Error("AI suggestion error", zap.String("provider", s.generator.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestion, err)
	}

	result, err := parseSuggestion(raw)
	if err != nil {
		metrics.SuggestionRequests.WithLabelValues("parse_error").Inc()
		logger.Error("AI suggestion response malformed", zap.String("provider", s.generator.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestion, err)
	}

	metrics.SuggestionRequests.WithLabelValues("success").Inc()
	return result, nil
}

func (s *SuggestionService) promptInput(req *models.SuggestionRequest) (*models.SuggestionPromptInput, error) {
	if req == nil {
		return nil, apperrors.InvalidInputError("request", "missing")
	}

	required := []struct{ field, value string }{
		{"paperType", req.PaperType},
		{"quantity", req.Quantity},
		{"useCase", req.UseCase},
		{"finish", req.Finish},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperrors.InvalidInputError(r.field, "is required")
		}
	}

	sustainability := req.SustainabilityStandards
	if strings.TrimSpace(sustainability) == "" {
		sustainability = models.SustainabilityNotSpecified
	}

	return &models.SuggestionPromptInput{
		PaperType:               req.PaperType,
		Quantity:                req.Quantity,
		UseCase:                 req.UseCase,
		Finish:                  req.Finish,
		SustainabilityStandards: sustainability,
		ProductCatalog:          s.catalog,
	}, nil
}

// BuildSuggestionPrompt fills the paper-suggestion template
func BuildSuggestionPrompt(input *models.SuggestionPromptInput) (string, error) {
	var b strings.Builder
	if err := suggestionPrompt.Execute(&b, input); err != nil {
		return "", err
	}
	return b.String(), nil
}

// parseSuggestion requires both keys of the result shape. Suggestions keep
// the order the model returned.
func parseSuggestion(raw string) (*models.SuggestionResult, error) {
	var out struct {
		Suggestions *[]string `json:"suggestions"`
		Reasoning   *string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	if out.Suggestions == nil || out.Reasoning == nil {
		return nil, fmt.Errorf("suggestion is missing suggestions or reasoning")
	}
	return &models.SuggestionResult{Suggestions: *out.Suggestions, Reasoning: *out.Reasoning}, nil
}
