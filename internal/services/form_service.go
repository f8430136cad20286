package services

import (
	"context"
	"fmt"

	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/repository"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"github.com/shabadpapers/shabad-api/pkg/slug"
	"github.com/shabadpapers/shabad-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FormService resolves the inquiry form a dialog should present
type FormService struct {
	source repository.FormDefinitionSource
}

// NewFormService creates a new form service instance
func NewFormService(source repository.FormDefinitionSource) *FormService {
	return &FormService{source: source}
}

// Resolve loads the definition for formID, falling back to the "default"
// definition when it is missing or unusable, and returns a copy prefilled for
// contextName. Definitions are read from the store on every call.
func (s *FormService) Resolve(ctx context.Context, formID, contextName string) (*models.FormDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "FormService.Resolve",
		attribute.String("form.id", formID),
		attribute.String("form.context", contextName))
	defer span.End()

	id := slug.Normalize(formID)
	if id == "" {
		id = models.DefaultFormID
	}

	def, err := s.load(ctx, id)
	if err == nil {
		metrics.FormResolutions.WithLabelValues("primary").Inc()
		span.SetAttributes(attribute.String("form.resolved", def.ID))
		return def.WithContext(contextName), nil
	}

	if id == models.DefaultFormID {
		return nil, unavailable(span, formID, err)
	}

	if apperrors.Is(err, apperrors.ErrNotFound) {
		logger.Info("Form definition not found, using default",
			zap.String("form_id", id),
			zap.String("context", contextName))
	} else {
		logger.Warn("Form definition unusable, using default",
			zap.String("form_id", id),
			zap.String("context", contextName),
			zap.Error(err))
	}

	fallback, err := s.load(ctx, models.DefaultFormID)
	if err != nil {
		return nil, unavailable(span, formID, err)
	}

	metrics.FormResolutions.WithLabelValues("fallback").Inc()
	span.SetAttributes(attribute.String("form.resolved", fallback.ID))
	return fallback.WithContext(contextName), nil
}

// load fetches a definition and rejects one that a dialog could not submit
func (s *FormService) load(ctx context.Context, id string) (*models.FormDefinition, error) {
	def, err := s.source.GetFormDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("incompatible form definition: %w", err)
	}
	return def, nil
}

func unavailable(span trace.Span, formID string, cause error) error {
	metrics.FormResolutions.WithLabelValues("unavailable").Inc()
	logger.Error("No usable form definition", zap.String("form_id", formID), zap.Error(cause))

	err := apperrors.DefinitionUnavailableError(formID, cause)
	tracing.RecordError(span, err)
	return err
}
