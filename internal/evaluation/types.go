package evaluation

import (
	"time"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

// Intent labels what kind of shopper query a golden query represents.
type Intent string

const (
	IntentProduct  Intent = "product"  // e.g., "jollof rice", "shea butter"
	IntentCategory Intent = "category" // e.g., "dress", "spices"
	IntentCultural Intent = "cultural" // e.g., "nigerian food", "kenyan jewelry"
	IntentTypo     Intent = "typo"     // e.g., "jolof", "egusii"
)

// ValidIntents returns all valid intent values.
func ValidIntents() []Intent {
	return []Intent{IntentProduct, IntentCategory, IntentCultural, IntentTypo}
}

// IsValid checks if the intent value is one of the defined constants.
func (i Intent) IsValid() bool {
	switch i {
	case IntentProduct, IntentCategory, IntentCultural, IntentTypo:
		return true
	}
	return false
}

// GoldenQuery is a labeled query with the product IDs a good search should surface.
type GoldenQuery struct {
	ID                 string                   `json:"id"`
	Query              string                   `json:"query"`
	Intent             Intent                   `json:"intent"`
	ExpectedProductIDs []string                 `json:"expected_product_ids"`
	Filters            *entities.ProductFilters `json:"filters,omitempty"`
	Difficulty         string                   `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single query.
type EvalResult struct {
	QueryID      string        `json:"query_id"`
	Query        string        `json:"query"`
	Intent       Intent        `json:"intent"`
	RecallAt10   float64       `json:"recall_at_10"`
	MRRAt10      float64       `json:"mrr_at_10"`
	ResultCount  int           `json:"result_count"`
	RetrievedIDs []string      `json:"retrieved_ids"`
	Latency      time.Duration `json:"latency_ns"`
	Error        string        `json:"error,omitempty"`
}

// EvalSummary holds aggregate metrics across all golden queries.
type EvalSummary struct {
	TotalQueries    int                       `json:"total_queries"`
	FailedQueries   int                       `json:"failed_queries"`
	AvgRecallAt10   float64                   `json:"avg_recall_at_10"`
	AvgMRRAt10      float64                   `json:"avg_mrr_at_10"`
	AvgLatency      time.Duration             `json:"avg_latency_ns"`
	QueriesWithHits int                       `json:"queries_with_hits"` // at least 1 result
	ByIntent        map[Intent]*IntentSummary `json:"by_intent"`
	Results         []EvalResult              `json:"results"`
}

// HitRate is the share of queries that returned anything.
func (s *EvalSummary) HitRate() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.QueriesWithHits) / float64(s.TotalQueries)
}

// IntentSummary holds metrics grouped by intent type.
type IntentSummary struct {
	Count         int     `json:"count"`
	AvgRecallAt10 float64 `json:"avg_recall_at_10"`
	AvgMRRAt10    float64 `json:"avg_mrr_at_10"`
}
