package services

import (
	"context"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
)

func fixtureCatalog() []*entities.Product {
	return []*entities.Product{
		{
			ID: "p1", Name: "Jollof Rice Kit", Description: "Everything for party jollof rice",
			Category: "food", CulturalRegion: "Nigerian", Price: 25, Rating: 4.8, InStock: true,
			VendorID: "v1", Vendor: &entities.Vendor{ID: "v1", ShopName: "Mama Put"},
		},
		{
			ID: "p2", Name: "Kente Cloth Scarf", Description: "Handwoven Ghanaian kente fabric",
			Category: "fashion", CulturalRegion: "Ghanaian", Price: 60, Rating: 4.2, InStock: true,
		},
		{
			ID: "p3", Name: "Suya Pepper", Description: "Smoky suya spice blend",
			Category: "spices", CulturalRegion: "Nigerian", Price: 8, Rating: 4.6,
		},
		{
			ID: "p4", Name: "Injera Flour", Description: "Teff flour for injera bread",
			Category: "groceries", CulturalRegion: "Ethiopian", Price: 15, InStock: true,
		},
		{
			ID: "p5", Name: "Shea Butter", Description: "Raw unrefined shea",
			Price: 12, Rating: 3.9, InStock: true,
		},
	}
}

func staticCatalog(products []*entities.Product) providers.CatalogProvider {
	return providers.CatalogProviderFunc(func(ctx context.Context) ([]*entities.Product, error) {
		return products, nil
	})
}

func newFixtureService() *AdvancedSearchService {
	return NewAdvancedSearchService(staticCatalog(fixtureCatalog()))
}

func productIDs(products []*entities.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
