package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/zoramarket/internal/adapters/database"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

var productRowColumns = []string{
	"id", "vendor_id", "name", "description", "price", "stock_quantity",
	"category", "cultural_region", "image_urls", "certifications",
	"is_active", "is_featured", "rating", "review_count", "created_at",
}

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewClientFromDB(db), mock
}

func TestProductAdapter_GetAll_ResolvesVendorsInOneBatch(t *testing.T) {
	client, mock := setupMockDB(t)
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "products" WHERE \("is_active" IS TRUE\) ORDER BY "created_at" DESC`).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow("p1", "v1", "Jollof Rice Mix", "Smoky party rice", 12.5, 10, "Food", "West Africa", "{a.jpg}", "{organic}", true, true, 4.8, 40, created).
			AddRow("p2", "v2", "Kente Scarf", nil, 30.0, 0, "Fashion", nil, "{}", nil, true, nil, nil, nil, created).
			AddRow("p3", "v1", "Suya Spice", "Peanut pepper rub", 6.0, 3, "Spices", "Nigeria", "{}", "{}", true, false, 4.1, 5, created))

	mock.ExpectQuery(`SELECT "id", "shop_name", "cover_image_url" FROM "vendors" WHERE \("id" IN \(.*\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shop_name", "cover_image_url"}).
			AddRow("v1", "Mama Put Pantry", "https://cdn/v1.png").
			AddRow("v2", "Accra Looms", nil))

	adapter := database.NewProductAdapter(client, database.NewVendorAdapter(client), nil)
	products, err := adapter.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Jollof Rice Mix", products[0].Name)
	assert.True(t, products[0].InStock)
	assert.True(t, products[0].IsFeatured)
	assert.Equal(t, []string{"organic"}, products[0].Certifications)
	require.NotNil(t, products[0].Vendor)
	assert.Equal(t, "Mama Put Pantry", products[0].Vendor.ShopName)
	assert.Equal(t, "https://cdn/v1.png", products[0].Vendor.LogoURL)

	assert.False(t, products[1].InStock)
	assert.Empty(t, products[1].Description)
	assert.Zero(t, products[1].Rating)
	require.NotNil(t, products[1].Vendor)
	assert.Empty(t, products[1].Vendor.LogoURL)

	assert.Same(t, products[0].Vendor, products[2].Vendor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductAdapter_GetAll_WrapsQueryFailure(t *testing.T) {
	client, mock := setupMockDB(t)
	mock.ExpectQuery(`FROM "products"`).WillReturnError(errors.New("connection reset"))

	adapter := database.NewProductAdapter(client, nil, nil)
	_, err := adapter.GetAll(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeCatalogUnavailable, apperrors.TypeOf(err))
}

func TestProductAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	mock.ExpectQuery(`FROM "products" WHERE \("id" = 'missing'\)`).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	adapter := database.NewProductAdapter(client, nil, nil)
	_, err := adapter.GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestProductAdapter_MissingVendorLeavesVendorNil(t *testing.T) {
	client, mock := setupMockDB(t)
	created := time.Now()

	mock.ExpectQuery(`FROM "products"`).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow("p1", "gone", "Palm Oil", "Red palm oil", 9.0, 2, "Food", "Nigeria", "{}", "{}", true, false, 4.0, 1, created))
	mock.ExpectQuery(`FROM "vendors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shop_name", "cover_image_url"}))

	adapter := database.NewProductAdapter(client, database.NewVendorAdapter(client), nil)
	products, err := adapter.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Nil(t, products[0].Vendor)
}
