package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/zoramarket/internal/adapters/cache"
	"github.com/zatekoja/zoramarket/internal/api/handlers"
	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
)

func testCatalog() []*entities.Product {
	return []*entities.Product{
		{ID: "p1", Name: "Jollof Rice Kit", Description: "Everything for party jollof rice", Category: "food", Price: 25, Rating: 4.8, InStock: true, StockQuantity: 10, IsActive: true, IsFeatured: true},
		{ID: "p2", Name: "Kente Cloth Scarf", Description: "Handwoven Ghanaian kente fabric", Category: "fashion", Price: 60, Rating: 4.2, InStock: true, StockQuantity: 3, IsActive: true},
		{ID: "p3", Name: "Suya Pepper", Description: "Smoky suya spice blend", Category: "spices", Price: 8, Rating: 4.6, IsActive: true},
	}
}

func staticCatalog(products []*entities.Product) providers.CatalogProvider {
	return providers.CatalogProviderFunc(func(ctx context.Context) ([]*entities.Product, error) {
		return products, nil
	})
}

func newSessionManager(t *testing.T) *handlers.SessionManager {
	t.Helper()
	lru, err := cache.NewLRUAdapter(64)
	require.NoError(t, err)
	engine := services.NewAdvancedSearchService(staticCatalog(testCatalog()))
	return handlers.NewSessionManager(cache.NewSessionStore(lru, 3600), engine)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductRepository) ListActive(ctx context.Context) ([]*entities.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

type MockSearchAnalyticsRepository struct {
	mock.Mock
}

func (m *MockSearchAnalyticsRepository) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockSearchAnalyticsRepository) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SearchEvent), args.Error(1)
}
