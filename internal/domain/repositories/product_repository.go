package repositories

import (
	"context"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

// ProductRepository reads products from the system of record
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Product, error)
	ListActive(ctx context.Context) ([]*entities.Product, error)
}

// VendorRepository reads vendor summaries
type VendorRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Vendor, error)
}
