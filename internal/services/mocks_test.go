package services_test

import (
	"context"

	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/pkg/relay"
	"github.com/stretchr/testify/mock"
)

// MockFormDefinitionSource is a mock implementation of repository.FormDefinitionSource
type MockFormDefinitionSource struct {
	mock.Mock
}

func (m *MockFormDefinitionSource) GetFormDefinition(ctx context.Context, id string) (*models.FormDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormDefinition), args.Error(1)
}

// MockCatalogSource is a mock implementation of repository.CatalogSource
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) ListVisibleCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCatalogSource) GetVisibleCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogSource) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogSource) ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error) {
	args := m.Called(ctx, categorySlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

// MockRelay is a mock implementation of services.InquiryRelay
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Send(ctx context.Context, payload map[string]any) (*relay.Response, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*relay.Response), args.Error(1)
}

// MockCaptchaVerifier is a mock implementation of services.CaptchaVerifier
type MockCaptchaVerifier struct {
	mock.Mock
}

func (m *MockCaptchaVerifier) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockCaptchaVerifier) Verify(token string) error {
	return m.Called(token).Error(0)
}

// MockGenerator is a mock implementation of llm.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Name() string {
	return "mock"
}

// MockMediaResolver is a mock implementation of storage.MediaResolver
type MockMediaResolver struct {
	mock.Mock
}

func (m *MockMediaResolver) Resolve(ctx context.Context, identifier string) string {
	return m.Called(ctx, identifier).String(0)
}
