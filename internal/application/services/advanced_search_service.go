package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

// AdvancedSearchService runs every search strategy against the catalog and
// assembles the merged response. It holds no per-user state.
type AdvancedSearchService struct {
	catalog    providers.CatalogProvider
	popularity PopularitySource
	metrics    *observability.Metrics
	now        func() time.Time
}

// SearchOption configures an AdvancedSearchService
type SearchOption func(*AdvancedSearchService)

// WithPopularitySource replaces the random trending popularity source
func WithPopularitySource(src PopularitySource) SearchOption {
	return func(s *AdvancedSearchService) {
		if src != nil {
			s.popularity = src
		}
	}
}

// WithClock overrides the time source used for analytics
func WithClock(now func() time.Time) SearchOption {
	return func(s *AdvancedSearchService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSearchMetrics records search counters and latency
func WithSearchMetrics(m *observability.Metrics) SearchOption {
	return func(s *AdvancedSearchService) {
		s.metrics = m
	}
}

// NewAdvancedSearchService creates a search engine over catalog
func NewAdvancedSearchService(catalog providers.CatalogProvider, opts ...SearchOption) *AdvancedSearchService {
	s := &AdvancedSearchService{
		catalog:    catalog,
		popularity: randomPopularity,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs all strategies concurrently, merges their output and derives
// suggestions, recommendations and analytics. The first strategy failure
// cancels the others and is returned.
func (s *AdvancedSearchService) Search(ctx context.Context, query, userID string, filters *entities.ProductFilters) (*entities.SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "search.advanced")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("search.query", query),
		attribute.Bool("search.authenticated", userID != ""),
	)

	start := s.now()

	strategies := s.strategies()
	outputs := make([][]*entities.Product, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		g.Go(func() error {
			sctx, sspan := observability.StartSpan(gctx, "search.strategy."+strategy.name)
			defer sspan.End()

			products, err := strategy.run(sctx, query, filters)
			if err != nil {
				observability.RecordError(sspan, err)
				return err
			}
			outputs[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		observability.RecordSearchMetric(ctx, s.metrics, 0, true, time.Since(start))
		return nil, err
	}

	results := MergeResults(outputs)
	resp := &entities.SearchResponse{
		Results:         results,
		Suggestions:     GenerateSuggestions(query, results, s.popularity),
		Recommendations: GenerateRecommendations(ctx, userID, query, results),
	}

	end := s.now()
	resp.Analytics = &entities.SearchAnalytics{
		Query:           query,
		Timestamp:       start.UnixMilli(),
		ResultCount:     len(results),
		UserID:          userID,
		SessionDuration: end.Sub(start).Milliseconds(),
	}

	observability.SetSpanAttributes(span, attribute.Int("search.result_count", len(results)))
	observability.RecordSearchMetric(ctx, s.metrics, len(results), false, time.Since(start))

	return resp, nil
}

// TrendingSearches returns the fixed trending phrases
func (s *AdvancedSearchService) TrendingSearches() []string {
	return append([]string(nil), trendingSearches...)
}

// loadCatalog fetches the catalog, typing provider failures as CATALOG_UNAVAILABLE
func (s *AdvancedSearchService) loadCatalog(ctx context.Context) ([]*entities.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products, err := s.catalog.GetAll(ctx)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.NewCatalogUnavailableError("failed to load product catalog", err)
	}
	return products, nil
}
