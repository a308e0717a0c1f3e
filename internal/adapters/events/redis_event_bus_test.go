package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/zoramarket/internal/adapters/events"
	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	redisclient "github.com/zatekoja/zoramarket/internal/infrastructure/clients/redis"
)

func newBus(t *testing.T) providers.EventBus {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	bus := events.NewRedisEventBus(redisclient.NewClientFromRedis(rdb))
	t.Cleanup(func() {
		_ = bus.Close()
		_ = rdb.Close()
	})
	return bus
}

func TestRedisEventBus_FanOut(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx, providers.EventChannelCatalogUpdates)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelCatalogUpdates)
	require.NoError(t, err)

	event := entities.NewCatalogEvent("p-7", entities.CatalogEventProductUpserted)
	require.NoError(t, bus.Publish(ctx, providers.EventChannelCatalogUpdates, event))

	for _, ch := range []<-chan *entities.CatalogEvent{first, second} {
		select {
		case got := <-ch:
			require.NotNil(t, got)
			assert.Equal(t, event.ID, got.ID)
			assert.Equal(t, "p-7", got.ProductID)
			assert.Equal(t, entities.CatalogEventProductUpserted, got.EventType)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for catalog event")
		}
	}
}

func TestRedisEventBus_ContextCancelClosesChannel(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, providers.EventChannelCatalogUpdates)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber channel was not closed")
	}
}

func TestRedisEventBus_Unsubscribe(t *testing.T) {
	bus := newBus(t)
	ctx := context.Background()

	ch, err := bus.Subscribe(ctx, providers.EventChannelCatalogUpdates)
	require.NoError(t, err)
	require.NoError(t, bus.Unsubscribe(ctx, providers.EventChannelCatalogUpdates))

	_, ok := <-ch
	assert.False(t, ok)
}
