package services

import (
	"strings"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

// ApplyFilters narrows products by every active field of filters (logical AND).
// A nil filters value returns the input slice unchanged. A product without a
// cultural region is never excluded by the region filter.
func ApplyFilters(products []*entities.Product, filters *entities.ProductFilters) []*entities.Product {
	if filters == nil {
		return products
	}

	out := make([]*entities.Product, 0, len(products))
	for _, p := range products {
		if matchesFilters(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

func matchesFilters(p *entities.Product, f *entities.ProductFilters) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Region != "" && p.CulturalRegion != "" &&
		!strings.Contains(strings.ToLower(p.CulturalRegion), strings.ToLower(f.Region)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if f.InStock && !p.InStock {
		return false
	}
	return true
}
