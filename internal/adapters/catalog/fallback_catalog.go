package catalog

import (
	"context"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

// FallbackCatalog serves the fallback catalog when the primary one fails or is empty
type FallbackCatalog struct {
	primary  providers.CatalogProvider
	fallback providers.CatalogProvider
}

// NewFallbackCatalog creates a new fallback catalog
func NewFallbackCatalog(primary, fallback providers.CatalogProvider) *FallbackCatalog {
	return &FallbackCatalog{primary: primary, fallback: fallback}
}

// GetAll returns the primary catalog or, failing that, the fallback
func (f *FallbackCatalog) GetAll(ctx context.Context) ([]*entities.Product, error) {
	products, err := f.primary.GetAll(ctx)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return nil, err
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("primary catalog unavailable, serving fallback catalog")
	case len(products) == 0:
		observability.LoggerFromContext(ctx).Info().Msg("primary catalog is empty, serving fallback catalog")
	default:
		return products, nil
	}
	return f.fallback.GetAll(ctx)
}
