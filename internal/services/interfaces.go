package services

import (
	"context"

	"github.com/shabadpapers/shabad-api/internal/models"
)

// FormServiceInterface resolves inquiry form definitions
type FormServiceInterface interface {
	Resolve(ctx context.Context, formID, contextName string) (*models.FormDefinition, error)
}

// InquiryServiceInterface relays inquiries
type InquiryServiceInterface interface {
	SubmitInquiry(ctx context.Context, req models.InquiryRequest) (*models.InquiryResponse, error)
}

// SuggestionServiceInterface produces AI paper suggestions
type SuggestionServiceInterface interface {
	GetPaperSuggestion(ctx context.Context, req *models.SuggestionRequest) (*models.SuggestionResult, error)
}

// CatalogServiceInterface defines the interface for catalog reads
type CatalogServiceInterface interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.CatalogEntry, error)
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
	Lookup(ctx context.Context, slug string) (*models.CatalogEntry, error)
}

// SessionServiceInterface defines anonymous session bootstrap
type SessionServiceInterface interface {
	StartAnonymous(ctx context.Context) (*models.AnonymousSession, string, error)
	Validate(token string) (*models.AnonymousSession, error)
	GetSessionTTL() int
	GetCookieName() string
	GetCookieDomain() string
	GetCookieSecure() bool
}

// Ensure services implement their interfaces
var _ FormServiceInterface = (*FormService)(nil)
var _ InquiryServiceInterface = (*InquiryService)(nil)
var _ SuggestionServiceInterface = (*SuggestionService)(nil)
var _ CatalogServiceInterface = (*CatalogService)(nil)
var _ SessionServiceInterface = (*SessionService)(nil)
