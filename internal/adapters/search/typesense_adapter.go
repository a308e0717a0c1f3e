package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	tsclient "github.com/zatekoja/zoramarket/internal/infrastructure/clients/typesense"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

// pageSize is the Typesense maximum per_page
const pageSize = 250

// TypesenseAdapter mirrors the product catalog into Typesense and serves it
// back as a CatalogProvider
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.CatalogProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the products collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index upserts a product document
func (a *TypesenseAdapter) Index(ctx context.Context, product *entities.Product) error {
	_, err := a.client.Client().Collection(tsclient.ProductsCollection).Documents().Upsert(ctx, ProductToDocument(product))
	if err != nil {
		return fmt.Errorf("failed to index product %s: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.ProductsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product %s from index: %w", id, err)
	}
	return nil
}

// GetAll pages through the whole products collection
func (a *TypesenseAdapter) GetAll(ctx context.Context) ([]*entities.Product, error) {
	products := []*entities.Product{}

	for page := 1; ; page++ {
		params := &api.SearchCollectionParams{
			Q:       pointer.String("*"),
			QueryBy: pointer.String("name"),
			Page:    pointer.Int(page),
			PerPage: pointer.Int(pageSize),
		}

		result, err := a.client.Client().Collection(tsclient.ProductsCollection).Documents().Search(ctx, params)
		if err != nil {
			return nil, apperrors.NewCatalogUnavailableError("failed to read products from Typesense", err)
		}
		if result.Hits == nil {
			break
		}

		hits := *result.Hits
		for _, hit := range hits {
			if hit.Document == nil {
				continue
			}
			products = append(products, DocumentToProduct(*hit.Document))
		}

		if len(hits) < pageSize {
			break
		}
	}

	return products, nil
}

// ProductToDocument flattens a product into a Typesense document
func ProductToDocument(p *entities.Product) map[string]interface{} {
	doc := map[string]interface{}{
		"id":              p.ID,
		"name":            p.Name,
		"description":     p.Description,
		"category":        p.Category,
		"cultural_region": p.CulturalRegion,
		"price":           p.Price,
		"rating":          p.Rating,
		"review_count":    p.ReviewCount,
		"stock_quantity":  p.StockQuantity,
		"in_stock":        p.InStock,
		"is_active":       p.IsActive,
		"is_featured":     p.IsFeatured,
		"vendor_id":       p.VendorID,
		"created_at":      p.CreatedAt.Unix(),
	}
	if len(p.Certifications) > 0 {
		doc["certifications"] = p.Certifications
	}
	if p.Vendor != nil {
		doc["vendor_name"] = p.Vendor.ShopName
		if p.Vendor.LogoURL != "" {
			doc["vendor_logo_url"] = p.Vendor.LogoURL
		}
	}
	return doc
}

// DocumentToProduct rebuilds a product from a search hit. Typesense returns
// JSON numbers as float64; missing optional fields stay zero.
func DocumentToProduct(doc map[string]interface{}) *entities.Product {
	p := &entities.Product{
		ID:             stringField(doc, "id"),
		Name:           stringField(doc, "name"),
		Description:    stringField(doc, "description"),
		Category:       stringField(doc, "category"),
		CulturalRegion: stringField(doc, "cultural_region"),
		Price:          floatField(doc, "price"),
		Rating:         floatField(doc, "rating"),
		ReviewCount:    int(floatField(doc, "review_count")),
		StockQuantity:  int(floatField(doc, "stock_quantity")),
		InStock:        boolField(doc, "in_stock"),
		IsActive:       boolField(doc, "is_active"),
		IsFeatured:     boolField(doc, "is_featured"),
		VendorID:       stringField(doc, "vendor_id"),
	}

	if ts := floatField(doc, "created_at"); ts > 0 {
		p.CreatedAt = time.Unix(int64(ts), 0).UTC()
	}

	if raw, ok := doc["certifications"].([]interface{}); ok {
		for _, c := range raw {
			if s, ok := c.(string); ok {
				p.Certifications = append(p.Certifications, s)
			}
		}
	}

	if name := stringField(doc, "vendor_name"); name != "" || p.VendorID != "" {
		p.Vendor = &entities.Vendor{
			ID:       p.VendorID,
			ShopName: name,
			LogoURL:  stringField(doc, "vendor_logo_url"),
		}
	}

	return p
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func floatField(doc map[string]interface{}, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func boolField(doc map[string]interface{}, key string) bool {
	v, _ := doc[key].(bool)
	return v
}
