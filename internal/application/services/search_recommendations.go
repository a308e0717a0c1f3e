package services

import (
	"context"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

const (
	maxCategoryRecommendations = 3
	maxRatedRecommendations    = 2
	highRatingThreshold        = 4.5
	defaultRecommendationGroup = "general"
)

// GenerateRecommendations derives personalized recommendations from the
// current results. Anonymous users get none. A panic while building the list
// is logged and produces an empty list.
func GenerateRecommendations(ctx context.Context, userID, query string, results []*entities.Product) (recs []entities.PersonalizedRecommendation) {
	recs = []entities.PersonalizedRecommendation{}
	if userID == "" {
		return recs
	}

	defer func() {
		if r := recover(); r != nil {
			observability.LoggerFromContext(ctx).Error().
				Interface("panic", r).
				Str("user_id", userID).
				Str("query", query).
				Msg("recommendation generation failed")
			recs = []entities.PersonalizedRecommendation{}
		}
	}()

	added := 0
	for _, p := range results {
		if added == maxCategoryRecommendations {
			break
		}
		if p.Category == "" {
			continue
		}
		recs = append(recs, entities.PersonalizedRecommendation{
			ProductID: p.ID,
			Score:     85,
			Reason:    "Similar category product",
			Category:  recommendationCategory(p),
			BasedOn:   entities.BasedOnSimilarProducts,
		})
		added++
	}

	added = 0
	for _, p := range results {
		if added == maxRatedRecommendations {
			break
		}
		if p.Rating < highRatingThreshold {
			continue
		}
		recs = append(recs, entities.PersonalizedRecommendation{
			ProductID: p.ID,
			Score:     90,
			Reason:    "Highly rated product",
			Category:  recommendationCategory(p),
			BasedOn:   entities.BasedOnViewHistory,
		})
		added++
	}

	return recs
}

func recommendationCategory(p *entities.Product) string {
	if p.Category == "" {
		return defaultRecommendationGroup
	}
	return p.Category
}
