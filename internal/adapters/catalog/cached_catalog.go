package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

// CacheKeyAll holds the serialized catalog
const CacheKeyAll = "catalog:all"

// CachedCatalog is a read-through cache in front of a catalog source.
// Concurrent misses share a single source load.
type CachedCatalog struct {
	source     providers.CatalogProvider
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
	group      singleflight.Group
}

// NewCachedCatalog wraps source with cache; metrics may be nil
func NewCachedCatalog(source providers.CatalogProvider, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CachedCatalog {
	return &CachedCatalog{
		source:     source,
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

// GetAll returns the cached catalog, loading it from the source on a miss
func (c *CachedCatalog) GetAll(ctx context.Context) ([]*entities.Product, error) {
	data, err := c.cache.Get(ctx, CacheKeyAll)
	if err == nil {
		var products []*entities.Product
		if jsonErr := json.Unmarshal(data, &products); jsonErr == nil {
			observability.RecordCacheHit(ctx, c.metrics, CacheKeyAll)
			return products, nil
		}
		observability.LoggerFromContext(ctx).Warn().Msg("discarding undecodable cached catalog")
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("catalog cache read failed")
	}
	observability.RecordCacheMiss(ctx, c.metrics, CacheKeyAll)

	v, err, _ := c.group.Do(CacheKeyAll, func() (interface{}, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*entities.Product), nil
}

// Refresh reloads the catalog from the source and rewrites the cache entry
func (c *CachedCatalog) Refresh(ctx context.Context) (int, error) {
	products, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

func (c *CachedCatalog) load(ctx context.Context) ([]*entities.Product, error) {
	products, err := c.source.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(products)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to encode catalog for cache")
		return products, nil
	}
	if err := c.cache.Set(ctx, CacheKeyAll, data, c.ttlSeconds); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache catalog")
	}
	return products, nil
}
