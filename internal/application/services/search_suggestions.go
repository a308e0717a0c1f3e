package services

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

const (
	shortQueryLength       = 3
	maxTrendingSuggestions = 5
	maxCategorySuggestions = 3
	maxProductSuggestions  = 5
	unknownVendorName      = "Unknown Vendor"
	productPopularityTop   = 100.0
	productPopularityStep  = 20.0
)

// typoCorrection maps a fragment found in a query to the phrase suggested for it
type typoCorrection struct {
	key        string
	correction string
}

// typoCorrections is checked in order; several may fire for one query
var typoCorrections = []typoCorrection{
	{key: "jollof", correction: "jollof rice"},
	{key: "egusi", correction: "egusi stew"},
	{key: "suya", correction: "suya spice"},
	{key: "palm", correction: "palm oil"},
	{key: "akara", correction: "akara fufu"},
	{key: "fufu", correction: "fufu"},
	{key: "injera", correction: "injera bread"},
	{key: "shito", correction: "shito peri peri"},
	{key: "bread", correction: "injera bread"},
}

// PopularitySource yields a trending popularity score in [0, 100)
type PopularitySource func() float64

func randomPopularity() float64 {
	return rand.Float64() * 100
}

// GenerateSuggestions builds the suggestion list for a query and its merged
// results. Sections are appended in order: trending (short queries only),
// categories, products, then did-you-mean corrections. Entries are not
// de-duplicated across sections.
func GenerateSuggestions(query string, results []*entities.Product, popularity PopularitySource) []entities.SearchSuggestion {
	if popularity == nil {
		popularity = randomPopularity
	}

	suggestions := []entities.SearchSuggestion{}

	if utf8.RuneCountInString(query) <= shortQueryLength {
		for _, phrase := range trendingSearches[:maxTrendingSuggestions] {
			score := popularity()
			suggestions = append(suggestions, entities.SearchSuggestion{
				ID:         "trending-" + phrase,
				Text:       phrase,
				Type:       entities.SuggestionTypeTrending,
				Popularity: &score,
				Metadata:   &entities.SuggestionMetadata{Trending: true},
			})
		}
	}

	seen := make(map[string]bool)
	var categories []string
	for _, p := range results {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
		if len(categories) == maxCategorySuggestions {
			break
		}
	}
	for _, c := range categories {
		suggestions = append(suggestions, entities.SearchSuggestion{
			ID:       "category-" + c,
			Text:     "Browse " + c,
			Type:     entities.SuggestionTypeCategory,
			Category: c,
		})
	}

	for i, p := range results {
		if i == maxProductSuggestions {
			break
		}
		score := productPopularityTop - float64(i)*productPopularityStep
		suggestions = append(suggestions, entities.SearchSuggestion{
			ID:         p.ID,
			Text:       p.Name,
			Type:       entities.SuggestionTypeProduct,
			Category:   p.Category,
			Vendor:     suggestionVendor(p),
			Popularity: &score,
		})
	}

	lowerQuery := strings.ToLower(query)
	for _, t := range typoCorrections {
		if strings.Contains(lowerQuery, t.key) && t.correction != lowerQuery {
			suggestions = append(suggestions, entities.SearchSuggestion{
				ID:   "typo-" + t.key,
				Text: "Did you mean: " + t.key + "?",
				Type: entities.SuggestionTypeProduct,
			})
		}
	}

	return suggestions
}

func suggestionVendor(p *entities.Product) *entities.SuggestionVendor {
	v := &entities.SuggestionVendor{ID: p.VendorID, Name: unknownVendorName}
	if p.Vendor != nil {
		if p.Vendor.ShopName != "" {
			v.Name = p.Vendor.ShopName
		}
		v.LogoURL = p.Vendor.LogoURL
		if v.ID == "" {
			v.ID = p.Vendor.ID
		}
	}
	return v
}
