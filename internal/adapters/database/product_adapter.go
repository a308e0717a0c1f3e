package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/lib/pq"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

var productColumns = []interface{}{
	"id", "vendor_id", "name", "description", "price", "stock_quantity",
	"category", "cultural_region", "image_urls", "certifications",
	"is_active", "is_featured", "rating", "review_count", "created_at",
}

// ProductAdapter reads the product catalog from Postgres. Vendor summaries are
// resolved in one batched query per catalog read.
type ProductAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	vendors repositories.VendorRepository
	metrics *observability.Metrics
}

var (
	_ repositories.ProductRepository = (*ProductAdapter)(nil)
	_ providers.CatalogProvider      = (*ProductAdapter)(nil)
)

// NewProductAdapter creates a new product adapter. metrics may be nil.
func NewProductAdapter(client *postgres.Client, vendors repositories.VendorRepository, metrics *observability.Metrics) *ProductAdapter {
	return &ProductAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		vendors: vendors,
		metrics: metrics,
	}
}

// GetAll implements CatalogProvider over the active products
func (a *ProductAdapter) GetAll(ctx context.Context) ([]*entities.Product, error) {
	products, err := a.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError("failed to load product catalog", err)
	}
	return products, nil
}

// ListActive returns every active product, newest first
func (a *ProductAdapter) ListActive(ctx context.Context) ([]*entities.Product, error) {
	start := time.Now()
	defer func() { observability.RecordDBMetric(ctx, a.metrics, "list_active_products", time.Since(start)) }()

	query, args, err := a.db.Select(productColumns...).
		From("products").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build product query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list products", err)
	}
	defer rows.Close()

	products := []*entities.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate products", err)
	}

	a.attachVendors(ctx, products)
	return products, nil
}

// GetByID retrieves a single product
func (a *ProductAdapter) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	query, args, err := a.db.Select(productColumns...).
		From("products").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build product query", err)
	}

	p, err := scanProduct(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get product", err)
	}

	a.attachVendors(ctx, []*entities.Product{p})
	return p, nil
}

// attachVendors fills Product.Vendor. Vendor lookup failures are logged and
// leave Vendor nil; suggestions then show "Unknown Vendor".
func (a *ProductAdapter) attachVendors(ctx context.Context, products []*entities.Product) {
	if a.vendors == nil || len(products) == 0 {
		return
	}

	loader := newVendorLoader(a.vendors)
	thunks := make([]dataloader.Thunk[*entities.Vendor], len(products))
	for i, p := range products {
		if p.VendorID == "" {
			continue
		}
		thunks[i] = loader.Load(ctx, p.VendorID)
	}

	logger := observability.LoggerFromContext(ctx)
	for i, thunk := range thunks {
		if thunk == nil {
			continue
		}
		vendor, err := thunk()
		if err != nil {
			logger.Debug().Err(err).Str("product_id", products[i].ID).Msg("vendor not resolved")
			continue
		}
		products[i].Vendor = vendor
	}
}

// newVendorLoader batches vendor lookups for one catalog read
func newVendorLoader(repo repositories.VendorRepository) *dataloader.Loader[string, *entities.Vendor] {
	return dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Vendor] {
		results := make([]*dataloader.Result[*entities.Vendor], len(keys))
		vendors, err := repo.GetByIDs(ctx, keys)

		byID := make(map[string]*entities.Vendor, len(vendors))
		for _, v := range vendors {
			byID[v.ID] = v
		}

		for i, key := range keys {
			switch v, ok := byID[key]; {
			case err != nil:
				results[i] = &dataloader.Result[*entities.Vendor]{Error: err}
			case ok:
				results[i] = &dataloader.Result[*entities.Vendor]{Data: v}
			default:
				results[i] = &dataloader.Result[*entities.Vendor]{Error: fmt.Errorf("vendor %s not found", key)}
			}
		}
		return results
	}, dataloader.WithBatchCapacity[string, *entities.Vendor](500))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*entities.Product, error) {
	var (
		p              entities.Product
		vendorID       sql.NullString
		description    sql.NullString
		category       sql.NullString
		culturalRegion sql.NullString
		rating         sql.NullFloat64
		reviewCount    sql.NullInt64
		stockQuantity  sql.NullInt64
		isFeatured     sql.NullBool
	)

	err := row.Scan(
		&p.ID,
		&vendorID,
		&p.Name,
		&description,
		&p.Price,
		&stockQuantity,
		&category,
		&culturalRegion,
		pq.Array(&p.ImageURLs),
		pq.Array(&p.Certifications),
		&p.IsActive,
		&isFeatured,
		&rating,
		&reviewCount,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.VendorID = vendorID.String
	p.Description = description.String
	p.Category = category.String
	p.CulturalRegion = culturalRegion.String
	p.Rating = rating.Float64
	p.ReviewCount = int(reviewCount.Int64)
	p.StockQuantity = int(stockQuantity.Int64)
	p.InStock = p.StockQuantity > 0
	p.IsFeatured = isFeatured.Bool

	return &p, nil
}
