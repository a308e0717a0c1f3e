package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
)

func TestCatalogCacheInvalidation_OnEvent(t *testing.T) {
	cache := NewMockCacheProvider()
	bus := NewMockEventBus()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "catalog:all", []byte("[]"), 60))
	require.NoError(t, cache.Set(ctx, "session:s1", []byte("{}"), 60))

	svc := services.NewCatalogCacheInvalidationService(cache, bus)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	assert.Equal(t, providers.EventChannelCatalogUpdates, bus.channel)

	event := entities.NewCatalogEvent("p1", entities.CatalogEventProductUpserted)
	require.NoError(t, bus.Publish(ctx, providers.EventChannelCatalogUpdates, event))

	assert.Eventually(t, func() bool {
		return len(cache.Patterns()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{services.CatalogCachePattern, services.HTTPCachePattern}, cache.Patterns())

	exists, _ := cache.Exists(ctx, "catalog:all")
	assert.False(t, exists)
	exists, _ = cache.Exists(ctx, "session:s1")
	assert.True(t, exists)
}

func TestCatalogCacheInvalidation_SubscribeError(t *testing.T) {
	bus := NewMockEventBus()
	bus.subErr = errors.New("redis down")

	svc := services.NewCatalogCacheInvalidationService(NewMockCacheProvider(), bus)
	assert.Error(t, svc.Start())
	svc.Stop()
}

func TestCatalogCacheInvalidation_StopsWhenBusCloses(t *testing.T) {
	bus := NewMockEventBus()
	svc := services.NewCatalogCacheInvalidationService(NewMockCacheProvider(), bus)
	require.NoError(t, svc.Start())

	require.NoError(t, bus.Close())

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestInvalidateSearchCaches(t *testing.T) {
	cache := NewMockCacheProvider()
	svc := services.NewCatalogCacheInvalidationService(cache, NewMockEventBus())

	require.NoError(t, svc.InvalidateSearchCaches(context.Background()))
	assert.Equal(t, []string{
		services.SearchCachePrefix + "*",
		services.ProductCachePrefix + "*",
	}, cache.Patterns())

	cache.err = errors.New("boom")
	assert.Error(t, svc.InvalidateCatalog(context.Background()))
}
