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

const categoryColumns = `id::text, slug, name, description, long_description, image,
	media, benefits, applications, has_sub_products, form_id, sort_order, visible`

const productColumns = `id::text, slug, category_slug, name, description, long_description,
	image, form_id, sort_order`

// ListVisibleCategories returns visible categories ordered by sort order
func (c *Client) ListVisibleCategories(ctx context.Context) ([]*models.Category, error) {
	start := time.Now()
	operation := "listVisibleCategories"

	rows, err := c.pool.Query(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE visible = true ORDER BY sort_order ASC, name ASC")
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, storeName, operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, storeName, operation, "success", duration, zap.Int("count", len(categories)))

	return categories, nil
}

// GetVisibleCategoryBySlug fetches a visible category
func (c *Client) GetVisibleCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	start := time.Now()
	operation := "getVisibleCategoryBySlug"

	row := c.pool.QueryRow(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE slug = $1 AND visible = true", slug)
	category, err := scanCategory(row)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError(fmt.Sprintf("category %q", slug))
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, storeName, operation, "error", duration, zap.Error(err))
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return category, nil
}

// GetProductBySlug fetches a single product
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	start := time.Now()
	operation := "getProductBySlug"

	row := c.pool.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE slug = $1", slug)
	product, err := scanProduct(row)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError(fmt.Sprintf("product %q", slug))
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, storeName, operation, "error", duration, zap.Error(err))
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return product, nil
}

// ListProductsByCategory returns the products of a category ordered by sort order and name
func (c *Client) ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error) {
	start := time.Now()
	operation := "listProductsByCategory"

	rows, err := c.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE category_slug = $1 ORDER BY sort_order ASC, name ASC",
		categorySlug)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, storeName, operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, storeName, operation, "success", duration,
		zap.String("category", categorySlug), zap.Int("count", len(products)))

	return products, nil
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	c := &models.Category{}
	var media, benefits, applications []byte
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.LongDescription, &c.Image,
		&media, &benefits, &applications, &c.HasSubProducts, &c.FormID, &c.Order, &c.Visible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category row: %w", err)
	}

	for _, list := range []struct {
		raw  []byte
		dest *[]string
	}{{media, &c.Media}, {benefits, &c.Benefits}, {applications, &c.Applications}} {
		if len(list.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(list.raw, list.dest); err != nil {
			return nil, fmt.Errorf("failed to decode category %q: %w", c.Slug, err)
		}
	}
	return c, nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Slug, &p.CategorySlug, &p.Name, &p.Description, &p.LongDescription,
		&p.Image, &p.FormID, &p.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product row: %w", err)
	}
	return p, nil
}
