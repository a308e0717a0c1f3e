package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
	"github.com/zatekoja/zoramarket/pkg/config"
	"github.com/zatekoja/zoramarket/pkg/retry"
)

const (
	ProductsCollection = "products"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	logger := observability.GetLogger()
	err := retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// ProductsSchema describes the products collection mirrored from the catalog
func ProductsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: ProductsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "cultural_region", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "price", Type: "float", Facet: pointer.True()},
			{Name: "rating", Type: "float", Facet: pointer.True()},
			{Name: "review_count", Type: "int32"},
			{Name: "stock_quantity", Type: "int32"},
			{Name: "in_stock", Type: "bool", Facet: pointer.True()},
			{Name: "is_active", Type: "bool"},
			{Name: "is_featured", Type: "bool"},
			{Name: "certifications", Type: "string[]", Optional: pointer.True()},
			{Name: "vendor_id", Type: "string", Facet: pointer.True()},
			{Name: "vendor_name", Type: "string", Optional: pointer.True()},
			{Name: "vendor_logo_url", Type: "string", Optional: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}

// InitSchema ensures the products collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)

	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ProductsCollection {
			logger.Debug().Str("collection", ProductsCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	if _, err := c.client.Collections().Create(ctx, ProductsSchema()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	logger.Info().Str("collection", ProductsCollection).Msg("Created Typesense collection")
	return nil
}

// DropProducts deletes the products collection
func (c *Client) DropProducts(ctx context.Context) error {
	if _, err := c.client.Collection(ProductsCollection).Delete(ctx); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", ProductsCollection, err)
	}
	return nil
}
