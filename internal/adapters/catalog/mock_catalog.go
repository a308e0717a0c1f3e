package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

//go:embed data/mock_products.json
var mockProductsJSON []byte

// MockCatalog serves the embedded demo catalog. It is used when no database
// is configured and as the fallback when the primary catalog fails.
type MockCatalog struct {
	products []*entities.Product
}

// NewMockCatalog parses the embedded catalog
func NewMockCatalog() (*MockCatalog, error) {
	var products []*entities.Product
	if err := json.Unmarshal(mockProductsJSON, &products); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	return &MockCatalog{products: products}, nil
}

// GetAll returns the active products of the embedded catalog
func (m *MockCatalog) GetAll(ctx context.Context) ([]*entities.Product, error) {
	out := make([]*entities.Product, 0, len(m.products))
	for _, p := range m.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID returns a single product, active or not
func (m *MockCatalog) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", id))
}

// ListActive is GetAll under the repository name
func (m *MockCatalog) ListActive(ctx context.Context) ([]*entities.Product, error) {
	return m.GetAll(ctx)
}
