package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

// VendorAdapter reads vendor summaries from the vendors table
type VendorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVendorAdapter creates a new vendor adapter
func NewVendorAdapter(client *postgres.Client) repositories.VendorRepository {
	return &VendorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByIDs returns the vendors found for ids, in no particular order
func (a *VendorAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Vendor, error) {
	if len(ids) == 0 {
		return []*entities.Vendor{}, nil
	}

	query, args, err := a.db.Select("id", "shop_name", "cover_image_url").
		From("vendors").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build vendor query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get vendors", err)
	}
	defer rows.Close()

	vendors := make([]*entities.Vendor, 0, len(ids))
	for rows.Next() {
		var (
			v    entities.Vendor
			logo sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.ShopName, &logo); err != nil {
			return nil, apperrors.NewInternalError("failed to scan vendor", err)
		}
		v.LogoURL = logo.String
		vendors = append(vendors, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate vendors", err)
	}

	return vendors, nil
}
