package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

// Cache key patterns cleared when the catalog changes
const (
	CatalogCachePattern  = "catalog:*"
	HTTPCachePattern     = "http:cache:*"
	ProductCachePrefix   = "http:cache:/api/products/"
	SearchCachePrefix    = "http:cache:/api/search/"
	invalidationDeadline = 5 * time.Second
)

// CatalogCacheInvalidationService drops cached catalog data on catalog events
type CatalogCacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	done     chan struct{}
}

// NewCatalogCacheInvalidationService creates a new invalidation service
func NewCatalogCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CatalogCacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CatalogCacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start subscribes to catalog updates and processes them until Stop
func (s *CatalogCacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelCatalogUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to catalog updates: %w", err)
	}

	s.started.Store(true)
	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("catalog cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CatalogCacheInvalidationService) Stop() {
	s.cancel()
	if s.started.Load() {
		<-s.done
	}
	observability.GetLogger().Info().Msg("catalog cache invalidation service stopped")
}

func (s *CatalogCacheInvalidationService) processEvents(eventChan <-chan *entities.CatalogEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CatalogCacheInvalidationService) handleEvent(event *entities.CatalogEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidationDeadline)
	defer cancel()

	logger := observability.GetLogger().With().
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Str("product_id", event.ProductID).
		Logger()

	if err := s.InvalidateCatalog(ctx); err != nil {
		logger.Warn().Err(err).Msg("catalog cache invalidation failed")
		return
	}
	logger.Debug().Msg("catalog caches invalidated")
}

// InvalidateCatalog deletes the cached catalog and every cached HTTP response
func (s *CatalogCacheInvalidationService) InvalidateCatalog(ctx context.Context) error {
	for _, pattern := range []string{CatalogCachePattern, HTTPCachePattern} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return nil
}

// InvalidateSearchCaches deletes cached search and product responses only
func (s *CatalogCacheInvalidationService) InvalidateSearchCaches(ctx context.Context) error {
	for _, prefix := range []string{SearchCachePrefix, ProductCachePrefix} {
		if err := s.cache.DeletePattern(ctx, prefix+"*"); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s*: %w", prefix, err)
		}
	}
	return nil
}
