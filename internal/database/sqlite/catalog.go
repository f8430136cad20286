package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shabadpapers/shabad-api/internal/models"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"github.com/shabadpapers/shabad-api/pkg/slug"
)

const categoryColumns = `id, slug, name, description, long_description, image,
	media, benefits, applications, has_sub_products, form_id, sort_order, visible`

const productColumns = `id, slug, category_slug, name, description, long_description,
	image, form_id, sort_order`

type rowScanner interface {
	Scan(dest ...any) error
}

// ListVisibleCategories returns visible categories ordered by sort order
func (s *Store) ListVisibleCategories(ctx context.Context) ([]*models.Category, error) {
	start := time.Now()
	operation := "listVisibleCategories"

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE visible = 1 ORDER BY sort_order ASC, name ASC")
	if err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			metrics.RecordStoreOperation(storeName, operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	metrics.RecordStoreOperation(storeName, operation, "success", metrics.MeasureDuration(start))
	return categories, nil
}

// GetVisibleCategoryBySlug fetches a visible category
func (s *Store) GetVisibleCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	start := time.Now()
	operation := "getVisibleCategoryBySlug"

	row := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE slug = ? AND visible = 1", slug)
	category, err := scanCategory(row)

	duration := metrics.MeasureDuration(start)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordStoreOperation(storeName, operation, "not_found", duration)
		return nil, apperrors.NotFoundError(fmt.Sprintf("category %q", slug))
	}
	if err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", duration)
		return nil, err
	}

	metrics.RecordStoreOperation(storeName, operation, "success", duration)
	return category, nil
}

// GetProductBySlug fetches a single product
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	start := time.Now()
	operation := "getProductBySlug"

	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE slug = ?", slug)
	product, err := scanProduct(row)

	duration := metrics.MeasureDuration(start)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordStoreOperation(storeName, operation, "not_found", duration)
		return nil, apperrors.NotFoundError(fmt.Sprintf("product %q", slug))
	}
	if err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", duration)
		return nil, err
	}

	metrics.RecordStoreOperation(storeName, operation, "success", duration)
	return product, nil
}

// ListProductsByCategory returns the products of a category ordered by sort order and name
func (s *Store) ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error) {
	start := time.Now()
	operation := "listProductsByCategory"

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE category_slug = ? ORDER BY sort_order ASC, name ASC",
		categorySlug)
	if err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			metrics.RecordStoreOperation(storeName, operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	metrics.RecordStoreOperation(storeName, operation, "success", metrics.MeasureDuration(start))
	return products, nil
}

// PutCategory inserts or replaces a category. An empty slug is derived from the name.
func (s *Store) PutCategory(ctx context.Context, c *models.Category) error {
	if c.Slug == "" {
		c.Slug = slug.Normalize(c.Name)
	}
	media, benefits, applications, err := encodeLists(c.Media, c.Benefits, c.Applications)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Slug, c.Name, c.Description, c.LongDescription, c.Image,
		media, benefits, applications, c.HasSubProducts, c.FormID, c.Order, c.Visible)
	if err != nil {
		return fmt.Errorf("failed to store category %q: %w", c.Slug, err)
	}
	return nil
}

// PutProduct inserts or replaces a product. An empty slug is derived from the name.
func (s *Store) PutProduct(ctx context.Context, p *models.Product) error {
	if p.Slug == "" {
		p.Slug = slug.Normalize(p.Name)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.CategorySlug, p.Name, p.Description, p.LongDescription, p.Image, p.FormID, p.Order)
	if err != nil {
		return fmt.Errorf("failed to store product %q: %w", p.Slug, err)
	}
	return nil
}

func encodeLists(lists ...[]string) (string, string, string, error) {
	out := make([]string, 3)
	for i, list := range lists {
		if list == nil {
			list = []string{}
		}
		raw, err := json.Marshal(list)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to encode list: %w", err)
		}
		out[i] = string(raw)
	}
	return out[0], out[1], out[2], nil
}

func scanCategory(row rowScanner) (*models.Category, error) {
	c := &models.Category{}
	var media, benefits, applications string
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.LongDescription, &c.Image,
		&media, &benefits, &applications, &c.HasSubProducts, &c.FormID, &c.Order, &c.Visible)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category row: %w", err)
	}

	for _, list := range []struct {
		raw  string
		dest *[]string
	}{{media, &c.Media}, {benefits, &c.Benefits}, {applications, &c.Applications}} {
		if list.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(list.raw), list.dest); err != nil {
			return nil, fmt.Errorf("failed to decode category %q: %w", c.Slug, err)
		}
	}
	return c, nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Slug, &p.CategorySlug, &p.Name, &p.Description, &p.LongDescription,
		&p.Image, &p.FormID, &p.Order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product row: %w", err)
	}
	return p, nil
}
