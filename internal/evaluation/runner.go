package evaluation

import (
	"context"
	"time"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

// cutoff is the K used for Recall@K and MRR@K
const cutoff = 10

// SearchProvider is the search surface under evaluation
type SearchProvider interface {
	Search(ctx context.Context, query, userID string, filters *entities.ProductFilters) (*entities.SearchResponse, error)
}

// Runner runs evaluation across a set of golden queries.
type Runner struct {
	searchService SearchProvider
}

func NewRunner(svc SearchProvider) *Runner {
	return &Runner{searchService: svc}
}

// Run searches every golden query anonymously. A failed search scores zero
// and is counted in FailedQueries rather than aborting the run.
func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) (*EvalSummary, error) {
	logger := observability.LoggerFromContext(ctx)

	summary := &EvalSummary{
		TotalQueries: len(queries),
		ByIntent:     make(map[Intent]*IntentSummary),
		Results:      make([]EvalResult, 0, len(queries)),
	}

	for _, gq := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := r.searchService.Search(ctx, gq.Query, "", gq.Filters)
		duration := time.Since(start)

		result := EvalResult{
			QueryID: gq.ID,
			Query:   gq.Query,
			Intent:  gq.Intent,
			Latency: duration,
		}

		if err != nil {
			logger.Warn().Err(err).Str("query_id", gq.ID).Msg("Golden query failed")
			result.Error = err.Error()
			summary.FailedQueries++
		} else {
			ids := make([]string, 0, len(resp.Results))
			for _, p := range resp.Results {
				ids = append(ids, p.ID)
			}
			result.RetrievedIDs = ids
			result.ResultCount = len(ids)
			result.RecallAt10 = RecallAtK(gq.ExpectedProductIDs, ids, cutoff)
			result.MRRAt10 = MRRAtK(gq.ExpectedProductIDs, ids, cutoff)
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.Results = append(s.Results, res)
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency
	if res.ResultCount > 0 {
		s.QueriesWithHits++
	}

	if _, ok := s.ByIntent[res.Intent]; !ok {
		s.ByIntent[res.Intent] = &IntentSummary{}
	}
	is := s.ByIntent[res.Intent]
	is.Count++
	is.AvgRecallAt10 += res.RecallAt10
	is.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
	}

	for _, is := range s.ByIntent {
		if is.Count > 0 {
			n := float64(is.Count)
			is.AvgRecallAt10 /= n
			is.AvgMRRAt10 /= n
		}
	}
}
