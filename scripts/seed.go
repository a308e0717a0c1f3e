package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/zatekoja/zoramarket/internal/adapters/catalog"
	"github.com/zatekoja/zoramarket/internal/adapters/search"
	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
	"github.com/zatekoja/zoramarket/pkg/config"
)

// Seeds PostgreSQL (and Typesense when reachable) with the embedded sample
// catalog. Expects migrations/001_catalog.sql to have been applied.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Log.Env, cfg.Log.Level)
	logger := observability.GetLogger()

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if os.Getenv("RESET_DB") == "true" {
		logger.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE search_analytics, products, vendors`); err != nil {
			logger.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	mock, err := catalog.NewMockCatalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load embedded catalog")
	}
	products, err := mock.ListActive(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to list sample products")
	}

	db := goqu.New("postgres", pgClient.DB())

	vendors := map[string]*entities.Vendor{}
	for _, p := range products {
		if p.Vendor != nil {
			vendors[p.Vendor.ID] = p.Vendor
		}
	}
	for _, v := range vendors {
		insert := db.Insert("vendors").Rows(goqu.Record{
			"id":              v.ID,
			"shop_name":       v.ShopName,
			"cover_image_url": sql.NullString{String: v.LogoURL, Valid: v.LogoURL != ""},
		}).OnConflict(goqu.DoNothing())
		if _, err := insert.Executor().ExecContext(ctx); err != nil {
			logger.Error().Err(err).Str("vendor_id", v.ID).Msg("Failed to seed vendor")
		}
	}

	seeded := 0
	for _, p := range products {
		insert := db.Insert("products").Rows(goqu.Record{
			"id":              p.ID,
			"vendor_id":       sql.NullString{String: p.VendorID, Valid: p.VendorID != ""},
			"name":            p.Name,
			"description":     p.Description,
			"price":           p.Price,
			"stock_quantity":  p.StockQuantity,
			"category":        p.Category,
			"cultural_region": sql.NullString{String: p.CulturalRegion, Valid: p.CulturalRegion != ""},
			"image_urls":      pq.Array(p.ImageURLs),
			"certifications":  pq.Array(p.Certifications),
			"is_active":       p.IsActive,
			"is_featured":     p.IsFeatured,
			"rating":          sql.NullFloat64{Float64: p.Rating, Valid: p.Rating > 0},
			"review_count":    p.ReviewCount,
			"created_at":      p.CreatedAt,
		}).OnConflict(goqu.DoNothing())
		if _, err := insert.Executor().ExecContext(ctx); err != nil {
			logger.Error().Err(err).Str("product_id", p.ID).Msg("Failed to seed product")
			continue
		}
		seeded++
	}
	logger.Info().Int("vendors", len(vendors)).Int("products", seeded).Msg("Seeded PostgreSQL")

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("Typesense unavailable, skipping index seed")
		return
	}
	index := search.NewTypesenseAdapter(tsClient)
	if err := index.InitSchema(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to init Typesense schema")
		return
	}
	for _, p := range products {
		if err := index.Index(ctx, p); err != nil {
			logger.Warn().Err(err).Str("product_id", p.ID).Msg("Failed to index product")
		}
	}
	logger.Info().Int("products", len(products)).Msg("Seeded Typesense")
}
