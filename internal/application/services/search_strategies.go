package services

import (
	"context"
	"strings"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

// trendingSearches is the fixed, non-personalized trending list
var trendingSearches = []string{
	"jollof rice",
	"egusi stew",
	"suya spice",
	"palm oil",
	"akara fufu",
	"injera bread",
	"shito peri peri",
}

// maxTrendingResults caps the trending strategy's own matches
const maxTrendingResults = 10

var (
	foodIntentTerms     = []string{"food", "cook", "recipe", "ingredient", "meal", "dish", "rice", "stew", "soup", "spice"}
	clothingIntentTerms = []string{"cloth", "wear", "fashion", "style", "outfit", "dress", "shirt", "fabric", "textile"}
	culturalIntentTerms = []string{"african", "nigerian", "ghanaian", "ethiopian", "kenyan"}

	foodCategories     = []string{"food", "groceries", "spices"}
	clothingCategories = []string{"fashion", "clothing", "textiles"}
)

// searchStrategy produces one candidate list for a query
type searchStrategy struct {
	name string
	run  func(ctx context.Context, query string, filters *entities.ProductFilters) ([]*entities.Product, error)
}

// strategies returns the runners in merge order
func (s *AdvancedSearchService) strategies() []searchStrategy {
	return []searchStrategy{
		{name: "basic", run: s.basicSearch},
		{name: "fuzzy", run: s.fuzzySearch},
		{name: "semantic", run: s.semanticSearch},
		{name: "category_boost", run: s.categoryBoostSearch},
		{name: "trending", run: s.trendingSearch},
	}
}

// basicSearch keeps filtered products whose name, description and category
// contain every query term
func (s *AdvancedSearchService) basicSearch(ctx context.Context, query string, filters *entities.ProductFilters) ([]*entities.Product, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	filtered := ApplyFilters(catalog, filters)
	if strings.TrimSpace(query) == "" {
		return filtered, nil
	}

	terms := strings.Fields(strings.ToLower(query))
	out := make([]*entities.Product, 0, len(filtered))
	for _, p := range filtered {
		text := p.SearchText(true)
		if containsAll(text, terms) {
			out = append(out, p)
		}
	}
	return out, nil
}

// fuzzySearch scores every catalog product by term overlap; filters are ignored
func (s *AdvancedSearchService) fuzzySearch(ctx context.Context, query string, _ *entities.ProductFilters) ([]*entities.Product, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return []*entities.Product{}, nil
	}

	terms := strings.Fields(strings.ToLower(query))
	longest := 0
	for _, t := range terms {
		longest = max(longest, len(t))
	}
	threshold := float64(longest) * 0.3

	out := []*entities.Product{}
	for _, p := range catalog {
		text := p.SearchText(false)
		score := 0
		for _, term := range terms {
			switch {
			case strings.Contains(text, term):
				score += 2 * len(term)
			case isFuzzyMatch(term, text):
				score += len(term)
			}
		}
		if float64(score) >= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

// isFuzzyMatch counts every equal (i, j) byte pair between a and b and accepts
// when the count reaches the longer length minus a third of it. This is a
// cheap overlap heuristic, not an edit distance.
func isFuzzyMatch(a, b string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	longest := max(len(a), len(b))
	allowed := longest / 3

	matches := 0
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				matches++
			}
		}
	}
	return matches >= longest-allowed
}

// semanticSearch matches products against the intent implied by the query
func (s *AdvancedSearchService) semanticSearch(ctx context.Context, query string, _ *entities.ProductFilters) ([]*entities.Product, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return []*entities.Product{}, nil
	}

	lowerQuery := strings.ToLower(query)
	foodIntent := containsAny(lowerQuery, foodIntentTerms)
	clothingIntent := containsAny(lowerQuery, clothingIntentTerms)

	var cultures []string
	for _, c := range culturalIntentTerms {
		if strings.Contains(lowerQuery, c) {
			cultures = append(cultures, c)
		}
	}

	out := []*entities.Product{}
	for _, p := range catalog {
		text := p.SearchText(true)
		category := strings.ToLower(p.Category)

		switch {
		case foodIntent && (oneOf(category, foodCategories) || containsAny(text, []string{"food", "ingredient"})):
		case clothingIntent && (oneOf(category, clothingCategories) || containsAny(text, []string{"cloth", "wear"})):
		case len(cultures) > 0 && containsAny(text, cultures):
		case strings.Contains(text, lowerQuery):
		default:
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// categoryBoostSearch returns same-category text hits ahead of other hits.
// Only filters.Category is consulted.
func (s *AdvancedSearchService) categoryBoostSearch(ctx context.Context, query string, filters *entities.ProductFilters) ([]*entities.Product, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if filters == nil || filters.Category == "" {
		return []*entities.Product{}, nil
	}

	lowerQuery := strings.ToLower(query)
	var inCategory, others []*entities.Product
	for _, p := range catalog {
		if !strings.Contains(p.SearchText(false), lowerQuery) {
			continue
		}
		if strings.EqualFold(p.Category, filters.Category) {
			inCategory = append(inCategory, p)
		} else {
			others = append(others, p)
		}
	}
	return append(append([]*entities.Product{}, inCategory...), others...), nil
}

// trendingSearch returns products mentioning a trending phrase contained in
// the query, or falls back to basicSearch when no phrase matches
func (s *AdvancedSearchService) trendingSearch(ctx context.Context, query string, filters *entities.ProductFilters) ([]*entities.Product, error) {
	lowerQuery := strings.ToLower(query)

	var matched []string
	for _, t := range trendingSearches {
		if strings.Contains(lowerQuery, t) {
			matched = append(matched, t)
		}
	}
	if len(matched) == 0 {
		return s.basicSearch(ctx, query, filters)
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	out := []*entities.Product{}
	for _, p := range catalog {
		name := strings.ToLower(p.Name)
		description := strings.ToLower(p.Description)
		for _, t := range matched {
			if strings.Contains(name, t) || strings.Contains(description, t) {
				out = append(out, p)
				break
			}
		}
		if len(out) == maxTrendingResults {
			break
		}
	}
	return out, nil
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func oneOf(value string, options []string) bool {
	for _, o := range options {
		if value == o {
			return true
		}
	}
	return false
}
