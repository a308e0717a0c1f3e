package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

const (
	defaultFeaturedLimit    = 20
	featuredMinRating       = 3.5
	featuredMinReviewCount  = 3
	recentProductWindow     = 30 * 24 * time.Hour
	moderateProductWindow   = 90 * 24 * time.Hour
	reviewCountNormalFactor = 1.7
)

// scoreComponents fixes the summation order of a score breakdown.
var scoreComponents = []string{
	"featured", "active", "stock", "rating", "reviews", "recency", "region", "certification",
}

// RankedProduct is a product with its ranking score
type RankedProduct struct {
	Product        *entities.Product
	Score          float64
	ScoreBreakdown map[string]float64
}

// ProductRankingService orders products for featured listings
type ProductRankingService struct {
	wFeatured      float64
	wActive        float64
	wStock         float64
	wRating        float64
	wReviews       float64
	wRecent        float64
	wRegion        float64
	wCertification float64
	now            func() time.Time
}

// NewProductRankingService creates a ranking service with the marketplace weights
func NewProductRankingService() *ProductRankingService {
	return &ProductRankingService{
		wFeatured:      50,
		wActive:        10,
		wStock:         5,
		wRating:        20,
		wReviews:       10,
		wRecent:        5,
		wRegion:        5,
		wCertification: 2,
		now:            time.Now,
	}
}

// Rank scores every product and sorts by score, rating and review count,
// all descending. userRegion may be empty.
func (s *ProductRankingService) Rank(products []*entities.Product, userRegion string) []RankedProduct {
	if len(products) == 0 {
		return nil
	}

	now := s.now()
	ranked := make([]RankedProduct, len(products))
	for i, p := range products {
		score, breakdown := s.calculateScore(p, userRegion, now)
		ranked[i] = RankedProduct{
			Product:        p,
			Score:          score,
			ScoreBreakdown: breakdown,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Product.Rating != b.Product.Rating {
			return a.Product.Rating > b.Product.Rating
		}
		return a.Product.ReviewCount > b.Product.ReviewCount
	})

	return ranked
}

// FeaturedProducts returns the top ranked products eligible for the featured
// shelf. When nothing qualifies every active product is ranked instead.
// A non-positive limit uses the default of 20.
func (s *ProductRankingService) FeaturedProducts(products []*entities.Product, userRegion string, limit int) []*entities.Product {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}

	var eligible, active []*entities.Product
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		active = append(active, p)
		if p.StockQuantity <= 0 {
			continue
		}
		if p.IsFeatured || p.Rating >= featuredMinRating || p.ReviewCount >= featuredMinReviewCount {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		eligible = active
	}

	ranked := s.Rank(eligible, userRegion)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]*entities.Product, len(ranked))
	for i, r := range ranked {
		out[i] = r.Product
	}
	return out
}

func (s *ProductRankingService) calculateScore(p *entities.Product, userRegion string, now time.Time) (float64, map[string]float64) {
	breakdown := make(map[string]float64)

	if p.IsFeatured {
		breakdown["featured"] = s.wFeatured
	}
	if p.IsActive {
		breakdown["active"] = s.wActive
	}

	if p.StockQuantity > 0 {
		breakdown["stock"] = math.Min(math.Log10(math.Max(float64(p.StockQuantity), 1))*s.wStock/2, s.wStock)
	}

	breakdown["rating"] = math.Min(p.Rating/5*s.wRating, s.wRating)

	if p.ReviewCount > 0 {
		breakdown["reviews"] = math.Min(math.Log10(math.Max(float64(p.ReviewCount), 1))*s.wReviews/reviewCountNormalFactor, s.wReviews)
	}

	if !p.CreatedAt.IsZero() {
		age := now.Sub(p.CreatedAt)
		switch {
		case age <= recentProductWindow:
			breakdown["recency"] = s.wRecent
		case age <= moderateProductWindow:
			breakdown["recency"] = s.wRecent / 2
		}
	}

	if userRegion != "" && p.CulturalRegion != "" &&
		strings.Contains(strings.ToLower(p.CulturalRegion), strings.ToLower(userRegion)) {
		breakdown["region"] = s.wRegion
	}

	if len(p.Certifications) > 0 {
		breakdown["certification"] = s.wCertification
	}

	total := 0.0
	for _, k := range scoreComponents {
		total += breakdown[k]
	}
	return math.Round(total*100) / 100, breakdown
}
