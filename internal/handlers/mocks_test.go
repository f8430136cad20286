package handlers_test

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) Resolve(ctx context.Context, formID, contextName string) (*models.FormDefinition, error) {
	args := m.Called(ctx, formID, contextName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormDefinition), args.Error(1)
}

type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) SubmitInquiry(ctx context.Context, req models.InquiryRequest) (*models.InquiryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InquiryResponse), args.Error(1)
}

type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) GetPaperSuggestion(ctx context.Context, req *models.SuggestionRequest) (*models.SuggestionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuggestionResult), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, slug string) (*models.CatalogEntry, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogEntry), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogService) Lookup(ctx context.Context, slug string) (*models.CatalogEntry, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogEntry), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) StartAnonymous(ctx context.Context) (*models.AnonymousSession, string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.AnonymousSession), args.String(1), args.Error(2)
}

func (m *MockSessionService) Validate(token string) (*models.AnonymousSession, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnonymousSession), args.Error(1)
}

func (m *MockSessionService) GetSessionTTL() int { return 3600 }
func (m *MockSessionService) GetCookieName() string { return "shabad_session" }
func (m *MockSessionService) GetCookieDomain() string { return "" }
func (m *MockSessionService) GetCookieSecure() bool { return false }
