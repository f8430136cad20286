package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/repository"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"github.com/shabadpapers/shabad-api/pkg/retry"
	"go.uber.org/zap"
)

const (
	categoriesKey        = "catalog:categories"
	categoryKeyPrefix    = "catalog:category:"
	productKeyPrefix     = "catalog:product:"
	productsByCatPrefix  = "catalog:products:"
	catalogCachePurge    = time.Minute
	defaultCatalogTTLSec = 300
)

// CatalogCache is a read-through cache in front of the catalog part of the
// document store. Form definitions are never cached: every dialog open
// re-resolves them from the store.
type CatalogCache struct {
	cache  *gocache.Cache
	source repository.CatalogSource
	ttl    time.Duration
	mu     sync.RWMutex
	ready  bool
}

// NewCatalogCache creates a catalog cache with the given entry TTL
func NewCatalogCache(source repository.CatalogSource, ttlSeconds int) *CatalogCache {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultCatalogTTLSec
	}
	ttl := time.Duration(ttlSeconds) * time.Second

	return &CatalogCache{
		cache:  gocache.New(ttl, catalogCachePurge),
		source: source,
		ttl:    ttl,
	}
}

// Initialize warms the category list, retrying transient store failures.
// Should be called during application startup before accepting requests.
func (cc *CatalogCache) Initialize(ctx context.Context) error {
	logger.Info("Initializing catalog cache...")
	start := time.Now()

	categories, err := retry.DoWithResult(ctx, retry.CacheWarmupConfig(), "catalog_cache_warmup",
		func() ([]*models.Category, error) {
			return cc.source.ListVisibleCategories(ctx)
		})
	if err != nil {
		logger.Error("Failed to initialize catalog cache", zap.Error(err))
		return err
	}
	cc.cache.Set(categoriesKey, categories, cc.ttl)
	cc.updateSizeMetric()

	cc.mu.Lock()
	cc.ready = true
	cc.mu.Unlock()

	logger.Info("Catalog cache initialized successfully",
		zap.Int("categories", len(categories)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// IsReady returns true once the cache has been warmed
func (cc *CatalogCache) IsReady() bool {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.ready
}

// ListVisibleCategories returns the visible categories in display order
func (cc *CatalogCache) ListVisibleCategories(ctx context.Context) ([]*models.Category, error) {
	return getOrLoad(cc, "catalog_categories", categoriesKey, func() ([]*models.Category, error) {
		return cc.source.ListVisibleCategories(ctx)
	})
}

// GetVisibleCategoryBySlug returns a visible category
func (cc *CatalogCache) GetVisibleCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return getOrLoad(cc, "catalog_category", categoryKeyPrefix+slug, func() (*models.Category, error) {
		return cc.source.GetVisibleCategoryBySlug(ctx, slug)
	})
}

// GetProductBySlug returns a product
func (cc *CatalogCache) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return getOrLoad(cc, "catalog_product", productKeyPrefix+slug, func() (*models.Product, error) {
		return cc.source.GetProductBySlug(ctx, slug)
	})
}

// ListProductsByCategory returns the products of a category
func (cc *CatalogCache) ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error) {
	return getOrLoad(cc, "catalog_products", productsByCatPrefix+categorySlug, func() ([]*models.Product, error) {
		return cc.source.ListProductsByCategory(ctx, categorySlug)
	})
}

// Invalidate drops every cached entry
func (cc *CatalogCache) Invalidate() {
	cc.cache.Flush()
	cc.updateSizeMetric()
	logger.Info("Catalog cache invalidated")
}

// getOrLoad serves key from the cache or loads and stores it. Errors,
// including not-found, are never cached.
func getOrLoad[T any](cc *CatalogCache, name, key string, load func() (T, error)) (T, error) {
	if data, found := cc.cache.Get(key); found {
		if value, ok := data.(T); ok {
			metrics.CacheHits.WithLabelValues(name).Inc()
			return value, nil
		}
		logger.Error("Invalid catalog cache data type", zap.String("key", key))
		cc.cache.Delete(key)
	}

	metrics.CacheMisses.WithLabelValues(name).Inc()

	value, err := load()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("catalog lookup %s: %w", key, err)
	}

	cc.cache.Set(key, value, cc.ttl)
	cc.updateSizeMetric()
	return value, nil
}

func (cc *CatalogCache) updateSizeMetric() {
	metrics.CacheSize.WithLabelValues("catalog").Set(float64(cc.cache.ItemCount()))
}

var _ repository.CatalogSource = (*CatalogCache)(nil)
