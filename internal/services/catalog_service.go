package services

import (
	"context"
	"fmt"

	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/repository"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/slug"
	"github.com/shabadpapers/shabad-api/pkg/storage"
	"golang.org/x/sync/errgroup"
)

// CatalogService serves the product catalog with media identifiers resolved
// to loadable URLs. Entities returned by the source are never modified.
type CatalogService struct {
	source repository.CatalogSource
	media  storage.MediaResolver
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(source repository.CatalogSource, media storage.MediaResolver) *CatalogService {
	return &CatalogService{source: source, media: media}
}

// ListCategories returns the visible categories in display order
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.source.ListVisibleCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Category, len(categories))
	for i, c := range categories {
		out[i] = s.resolveCategory(ctx, c)
	}
	return out, nil
}

// GetCategory returns a visible category together with its products
func (s *CatalogService) GetCategory(ctx context.Context, categorySlug string) (*models.CatalogEntry, error) {
	categorySlug = slug.Normalize(categorySlug)
	if categorySlug == "" {
		return nil, apperrors.NotFoundError("category")
	}

	var (
		category *models.Category
		products []*models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.source.GetVisibleCategoryBySlug(gctx, categorySlug)
		category = c
		return err
	})
	g.Go(func() error {
		p, err := s.source.ListProductsByCategory(gctx, categorySlug)
		products = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entry := &models.CatalogEntry{
		Type:     models.CatalogEntryCategory,
		Category: s.resolveCategory(ctx, category),
		Products: make([]*models.Product, len(products)),
	}
	for i, p := range products {
		entry.Products[i] = s.resolveProduct(ctx, p)
	}
	return entry, nil
}

// GetProduct returns a single product
func (s *CatalogService) GetProduct(ctx context.Context, productSlug string) (*models.Product, error) {
	productSlug = slug.Normalize(productSlug)
	if productSlug == "" {
		return nil, apperrors.NotFoundError("product")
	}

	p, err := s.source.GetProductBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	return s.resolveProduct(ctx, p), nil
}

// Lookup resolves a catalog page slug: a category first, then a product
func (s *CatalogService) Lookup(ctx context.Context, entrySlug string) (*models.CatalogEntry, error) {
	entry, err := s.GetCategory(ctx, entrySlug)
	if err == nil {
		return entry, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	p, err := s.GetProduct(ctx, entrySlug)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundError(fmt.Sprintf("catalog entry %q", entrySlug))
		}
		return nil, err
	}
	return &models.CatalogEntry{Type: models.CatalogEntryProduct, Product: p}, nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, c *models.Category) *models.Category {
	out := *c
	out.Image = s.resolve(ctx, c.Image)
	if len(c.Media) > 0 {
		out.Media = make([]string, 0, len(c.Media))
		for _, m := range c.Media {
			if url := s.resolve(ctx, m); url != "" {
				out.Media = append(out.Media, url)
			}
		}
	}
	return &out
}

func (s *CatalogService) resolveProduct(ctx context.Context, p *models.Product) *models.Product {
	out := *p
	out.Image = s.resolve(ctx, p.Image)
	return &out
}

func (s *CatalogService) resolve(ctx context.Context, identifier string) string {
	if s.media == nil || identifier == "" {
		return identifier
	}
	return s.media.Resolve(ctx, identifier)
}
