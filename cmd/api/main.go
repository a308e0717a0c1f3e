package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/zoramarket/internal/adapters/cache"
	"github.com/zatekoja/zoramarket/internal/adapters/catalog"
	"github.com/zatekoja/zoramarket/internal/adapters/database"
	"github.com/zatekoja/zoramarket/internal/adapters/events"
	"github.com/zatekoja/zoramarket/internal/adapters/search"
	"github.com/zatekoja/zoramarket/internal/api/handlers"
	"github.com/zatekoja/zoramarket/internal/api/middleware"
	"github.com/zatekoja/zoramarket/internal/api/routes"
	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/redis"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
	"github.com/zatekoja/zoramarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	healthChecks := map[string]handlers.HealthCheck{}

	// PostgreSQL backs the postgres catalog source, product lookups and
	// search analytics. The server still starts when it is unreachable.
	var pgClient *postgres.Client
	if cfg.Catalog.Source != config.CatalogSourceMock {
		pgClient, err = postgres.NewClient(&cfg.Database)
		if err != nil {
			logger.Warn().Err(err).Msg("PostgreSQL unavailable")
		} else {
			defer pgClient.Close()
			healthChecks["postgres"] = pgClient.Ping
			logger.Info().Msg("PostgreSQL client initialized")
		}
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, using in-process cache")
		lru, err := cache.NewLRUAdapter(cfg.Search.LocalCacheSize)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create in-process cache")
		}
		cacheProvider = lru
	} else {
		defer redisClient.Close()
		healthChecks["redis"] = redisClient.Ping
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
		logger.Info().Msg("Redis client initialized")
	}

	mockCatalog, err := catalog.NewMockCatalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load embedded catalog")
	}

	var source providers.CatalogProvider
	var productRepo repositories.ProductRepository = mockCatalog
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		if pgClient != nil {
			products := database.NewProductAdapter(pgClient, database.NewVendorAdapter(pgClient), metrics)
			source = products
			productRepo = products
		}
	case config.CatalogSourceTypesense:
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Typesense unavailable")
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.InitSchema(ctx); err != nil {
				logger.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			source = adapter
		}
		if pgClient != nil {
			productRepo = database.NewProductAdapter(pgClient, database.NewVendorAdapter(pgClient), metrics)
		}
	case config.CatalogSourceMock:
		source = mockCatalog
	}

	switch {
	case source == nil:
		if !cfg.Catalog.MockFallback {
			logger.Fatal().Str("source", cfg.Catalog.Source).Msg("Catalog source unavailable and mock fallback disabled")
		}
		logger.Warn().Str("source", cfg.Catalog.Source).Msg("Catalog source unavailable, serving embedded catalog")
		source = mockCatalog
	case cfg.Catalog.MockFallback && cfg.Catalog.Source != config.CatalogSourceMock:
		source = catalog.NewFallbackCatalog(source, mockCatalog)
	}

	cachedCatalog := catalog.NewCachedCatalog(source, cacheProvider, cfg.Catalog.CacheTTLSeconds, metrics)

	searchService := services.NewAdvancedSearchService(cachedCatalog, services.WithSearchMetrics(metrics))
	rankingService := services.NewProductRankingService()

	var analyticsRepo repositories.SearchAnalyticsRepository
	if pgClient != nil {
		analyticsRepo = database.NewSearchAnalyticsAdapter(pgClient)
	}
	analyticsService := services.NewSearchAnalyticsService(analyticsRepo)

	sessionManager := handlers.NewSessionManager(
		cache.NewSessionStore(cacheProvider, cfg.Search.SessionTTLSeconds),
		searchService,
		services.WithHistoryLimit(cfg.Search.HistoryLimit),
		services.WithSavedLimit(cfg.Search.SavedLimit),
		services.WithSearchTracker(analyticsService),
	)

	if eventBus != nil {
		invalidation := services.NewCatalogCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start catalog cache invalidation")
		} else {
			defer invalidation.Stop()
		}
	}

	warming := services.NewCatalogWarmingService(cachedCatalog)
	go warming.StartPeriodicWarming(ctx, 5*time.Minute)

	router := routes.NewRouter(
		handlers.NewSearchHandler(sessionManager, analyticsService),
		handlers.NewProductHandler(cachedCatalog, productRepo, rankingService),
		handlers.NewHealthHandler(healthChecks),
		middleware.NewCacheMiddleware(cacheProvider, metrics),
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Str("catalog_source", cfg.Catalog.Source).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	logger.Info().Msg("Server stopped")
}
