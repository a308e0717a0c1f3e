package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

// CatalogRefresher reloads a cached catalog from its source
type CatalogRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// CatalogWarmingService keeps the catalog cache populated
type CatalogWarmingService struct {
	catalog CatalogRefresher
}

// NewCatalogWarmingService creates a new catalog warming service
func NewCatalogWarmingService(catalog CatalogRefresher) *CatalogWarmingService {
	return &CatalogWarmingService{catalog: catalog}
}

// WarmCache reloads the catalog into the cache
func (s *CatalogWarmingService) WarmCache(ctx context.Context) error {
	start := time.Now()
	n, err := s.catalog.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm catalog cache: %w", err)
	}
	observability.GetLogger().Info().
		Int("products", n).
		Dur("duration", time.Since(start)).
		Msg("catalog cache warmed")
	return nil
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CatalogWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.GetLogger()
	if err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial catalog warming failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("stopping catalog warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("periodic catalog warming failed")
				}
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("started periodic catalog warming")
}
