package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zatekoja/zoramarket/internal/adapters/catalog"
	"github.com/zatekoja/zoramarket/internal/adapters/database"
	"github.com/zatekoja/zoramarket/internal/adapters/events"
	"github.com/zatekoja/zoramarket/internal/adapters/search"
	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/redis"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
	"github.com/zatekoja/zoramarket/pkg/config"
)

func main() {
	var reset bool
	var fromMock bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.BoolVar(&fromMock, "mock", false, "index the embedded sample catalog instead of PostgreSQL")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Log.Env, cfg.Log.Level)
	logger := observability.GetLogger()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			logger.Fatal().Err(err).Str("interval", intervalValue).Msg("Invalid interval")
		}
		if interval <= 0 {
			logger.Fatal().Msg("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset, fromMock); err != nil {
			logger.Error().Err(err).Msg("Reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		logger.Info().Dur("next_run_in", interval).Msg("Reindex complete")

		select {
		case <-ctx.Done():
			logger.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset, fromMock bool) error {
	logger := observability.LoggerFromContext(ctx)

	var products repositories.ProductRepository
	if fromMock {
		mock, err := catalog.NewMockCatalog()
		if err != nil {
			return err
		}
		products = mock
	} else {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			return err
		}
		defer pgClient.Close()
		products = database.NewProductAdapter(pgClient, database.NewVendorAdapter(pgClient), nil)
	}

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}
	index := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		logger.Info().Str("collection", typesense.ProductsCollection).Msg("Dropping collection before reindex")
		if err := tsClient.DropProducts(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to drop collection")
		}
	}

	if err := index.InitSchema(ctx); err != nil {
		return err
	}

	active, err := products.ListActive(ctx)
	if err != nil {
		return err
	}

	logger.Info().Int("count", len(active)).Msg("Indexing products")

	indexed := 0
	for _, p := range active {
		if p == nil {
			continue
		}
		if err := index.Index(ctx, p); err != nil {
			logger.Warn().Err(err).Str("product_id", p.ID).Msg("Failed to index product")
			continue
		}
		indexed++
	}

	logger.Info().Int("indexed", indexed).Int("failed", len(active)-indexed).Msg("Indexing complete")

	publishReindexed(ctx, cfg)
	return nil
}

// publishReindexed tells running API servers to drop their catalog and
// search caches. Redis being down only costs freshness until the TTL expires.
func publishReindexed(ctx context.Context, cfg *config.Config) {
	logger := observability.LoggerFromContext(ctx)

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, skipping reindex notification")
		return
	}
	defer redisClient.Close()

	bus := events.NewRedisEventBus(redisClient)
	defer bus.Close()

	event := entities.NewCatalogEvent("", entities.CatalogEventCatalogReindexed)
	if err := bus.Publish(ctx, providers.EventChannelCatalogUpdates, event); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish reindex event")
	}
}
