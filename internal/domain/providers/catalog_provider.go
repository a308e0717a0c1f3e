package providers

import (
	"context"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

// CatalogProvider supplies the complete, unfiltered product catalog.
// Implementations must be safe for concurrent use.
type CatalogProvider interface {
	GetAll(ctx context.Context) ([]*entities.Product, error)
}

// CatalogProviderFunc adapts a plain function to CatalogProvider
type CatalogProviderFunc func(ctx context.Context) ([]*entities.Product, error)

// GetAll calls f(ctx)
func (f CatalogProviderFunc) GetAll(ctx context.Context) ([]*entities.Product, error) {
	return f(ctx)
}
