package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shabadpapers/shabad-api/internal/models"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"go.uber.org/zap"
)

// GetFormDefinition fetches a form definition by id
func (c *Client) GetFormDefinition(ctx context.Context, id string) (*models.FormDefinition, error) {
	start := time.Now()
	operation := "getFormDefinition"

	def := &models.FormDefinition{}
	var fields []byte
	err := c.pool.QueryRow(ctx,
		"SELECT id, title, description, fields FROM form_definitions WHERE id = $1", id,
	).Scan(&def.ID, &def.Title, &def.Description, &fields)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError(fmt.Sprintf("form definition %q", id))
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, storeName, operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query form definition: %w", err)
	}

	if err := json.Unmarshal(fields, &def.Fields); err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, storeName, operation, "error", duration, zap.String("form_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to decode fields of form definition %q: %w", id, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, storeName, operation, "success", duration,
		zap.String("form_id", id), zap.Int("fields", len(def.Fields)))

	return def, nil
}
