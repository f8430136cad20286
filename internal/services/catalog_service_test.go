package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/services"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ListCategories_ResolvesMediaOnCopies(t *testing.T) {
	source := new(MockCatalogSource)
	media := new(MockMediaResolver)
	service := services.NewCatalogService(source, media)

	stored := []*models.Category{
		{Slug: "kraft-paper", Name: "Kraft Paper", Image: "kraft-paper", Media: []string{"a", "missing"}},
	}
	source.On("ListVisibleCategories", mock.Anything).Return(stored, nil).Once()
	media.On("Resolve", mock.Anything, "kraft-paper").Return("https://cdn/kraft-paper?sig=1")
	media.On("Resolve", mock.Anything, "a").Return("https://cdn/a?sig=1")
	media.On("Resolve", mock.Anything, "missing").Return("")

	categories, err := service.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "https://cdn/kraft-paper?sig=1", categories[0].Image)
	assert.Equal(t, []string{"https://cdn/a?sig=1"}, categories[0].Media)
	assert.Equal(t, "kraft-paper", stored[0].Image)
	assert.Equal(t, []string{"a", "missing"}, stored[0].Media)
}

func TestCatalogService_GetCategory(t *testing.T) {
	store := newSQLiteStore(t)
	service := services.NewCatalogService(store, storage.StaticResolver{BaseURL: "https://shabadpapers.com"})

	entry, err := service.GetCategory(context.Background(), "Food Grade Papers")

	require.NoError(t, err)
	assert.Equal(t, models.CatalogEntryCategory, entry.Type)
	assert.Equal(t, "food-grade-papers", entry.Category.Slug)
	assert.Equal(t, "https://shabadpapers.com/images/food-grade-papers", entry.Category.Image)
	require.NotEmpty(t, entry.Products)
	for _, p := range entry.Products {
		assert.Equal(t, "food-grade-papers", p.CategorySlug)
	}
}

func TestCatalogService_Lookup(t *testing.T) {
	store := newSQLiteStore(t)
	service := services.NewCatalogService(store, nil)
	ctx := context.Background()

	t.Run("category first", func(t *testing.T) {
		entry, err := service.Lookup(ctx, "kraft-paper")
		require.NoError(t, err)
		assert.Equal(t, models.CatalogEntryCategory, entry.Type)
		assert.Len(t, entry.Products, 2)
	})

	t.Run("then product", func(t *testing.T) {
		entry, err := service.Lookup(ctx, "baking-paper")
		require.NoError(t, err)
		assert.Equal(t, models.CatalogEntryProduct, entry.Type)
		assert.Equal(t, "Baking Paper", entry.Product.Name)
	})

	t.Run("hidden category is not found", func(t *testing.T) {
		_, err := service.Lookup(ctx, "discontinued")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := service.Lookup(ctx, "papyrus")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCatalogService_Lookup_StoreErrorIsNotMasked(t *testing.T) {
	source := new(MockCatalogSource)
	service := services.NewCatalogService(source, nil)
	storeErr := errors.New("connection refused")

	source.On("GetVisibleCategoryBySlug", mock.Anything, "kraft-paper").Return(nil, storeErr)
	source.On("ListProductsByCategory", mock.Anything, "kraft-paper").Return([]*models.Product{}, nil)

	_, err := service.Lookup(context.Background(), "kraft-paper")

	assert.ErrorIs(t, err, storeErr)
	source.AssertNotCalled(t, "GetProductBySlug", mock.Anything, mock.Anything)
}
