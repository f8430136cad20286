package repository

import (
	"context"

	"github.com/shabadpapers/shabad-api/internal/models"
)

// FormDefinitionSource reads inquiry form definitions from the document store.
// A missing definition is reported as errors.ErrNotFound.
type FormDefinitionSource interface {
	GetFormDefinition(ctx context.Context, id string) (*models.FormDefinition, error)
}

// CatalogSource reads categories and products from the document store
type CatalogSource interface {
	// ListVisibleCategories returns visible categories ordered by their order field
	ListVisibleCategories(ctx context.Context) ([]*models.Category, error)

	// GetVisibleCategoryBySlug returns errors.ErrNotFound for hidden categories
	GetVisibleCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)

	// GetProductBySlug fetches a single product
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)

	// ListProductsByCategory returns a category's products ordered by order, then name
	ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error)
}

// DocumentStore is the explicitly constructed store handle shared by the
// repositories. It is opened once at process start and closed on shutdown.
type DocumentStore interface {
	FormDefinitionSource
	CatalogSource

	Name() string
	Ping(ctx context.Context) error
	Close()
}
