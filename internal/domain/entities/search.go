package entities

// ProductFilters narrows a search. Nil pointers and empty strings impose nothing.
type ProductFilters struct {
	Category  string   `json:"category,omitempty"`
	Region    string   `json:"region,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	InStock   bool     `json:"in_stock,omitempty"`
}

// SuggestionType classifies a SearchSuggestion
type SuggestionType string

const (
	SuggestionTypeProduct  SuggestionType = "product"
	SuggestionTypeCategory SuggestionType = "category"
	SuggestionTypeVendor   SuggestionType = "vendor"
	SuggestionTypeTrending SuggestionType = "trending"
)

// SuggestionVendor is the vendor summary shown next to a product suggestion
type SuggestionVendor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// SuggestionMetadata carries display hints for a suggestion
type SuggestionMetadata struct {
	Trending       bool `json:"trending,omitempty"`
	RecentlyViewed bool `json:"recently_viewed,omitempty"`
	IsSponsored    bool `json:"is_sponsored,omitempty"`
}

// SearchSuggestion is a single entry of the "did you mean / browse" list
type SearchSuggestion struct {
	ID         string              `json:"id"`
	Text       string              `json:"text"`
	Type       SuggestionType      `json:"type"`
	Category   string              `json:"category,omitempty"`
	Vendor     *SuggestionVendor   `json:"vendor,omitempty"`
	Popularity *float64            `json:"popularity,omitempty"`
	Metadata   *SuggestionMetadata `json:"metadata,omitempty"`
}

// SearchHistoryEntry records one executed search. Timestamp is epoch milliseconds.
type SearchHistoryEntry struct {
	ID          string          `json:"id"`
	Query       string          `json:"query"`
	Timestamp   int64           `json:"timestamp"`
	ResultCount int             `json:"result_count"`
	Filters     *ProductFilters `json:"filters,omitempty"`
}

// SearchAnalytics describes a completed search.
// ClickedResultIndex is reserved for click tracking and never set by the engine.
type SearchAnalytics struct {
	Query              string `json:"query"`
	Timestamp          int64  `json:"timestamp"`
	ResultCount        int    `json:"result_count"`
	UserID             string `json:"user_id,omitempty"`
	SessionDuration    int64  `json:"session_duration"`
	ClickedResultIndex *int   `json:"clicked_result_index,omitempty"`
}

// RecommendationBasis explains what a recommendation was derived from
type RecommendationBasis string

const (
	BasedOnPurchaseHistory    RecommendationBasis = "purchase_history"
	BasedOnViewHistory        RecommendationBasis = "view_history"
	BasedOnCulturalPreference RecommendationBasis = "cultural_preference"
	BasedOnLocation           RecommendationBasis = "location"
	BasedOnSimilarProducts    RecommendationBasis = "similar_products"
)

// PersonalizedRecommendation points at a product the user may like
type PersonalizedRecommendation struct {
	ProductID string              `json:"product_id"`
	Score     float64             `json:"score"`
	Reason    string              `json:"reason"`
	Category  string              `json:"category"`
	BasedOn   RecommendationBasis `json:"based_on"`
}

// SearchResponse is the payload returned for one search.
// Degraded is set only when the empty payload stands in for a failed search.
type SearchResponse struct {
	Results         []*Product                   `json:"results"`
	Suggestions     []SearchSuggestion           `json:"suggestions"`
	Recommendations []PersonalizedRecommendation `json:"recommendations"`
	Analytics       *SearchAnalytics             `json:"analytics"`
	Degraded        bool                         `json:"degraded,omitempty"`
}

// EmptySearchResponse returns the safe payload used when a search fails
func EmptySearchResponse() *SearchResponse {
	return &SearchResponse{
		Results:         []*Product{},
		Suggestions:     []SearchSuggestion{},
		Recommendations: []PersonalizedRecommendation{},
		Degraded:        true,
	}
}
