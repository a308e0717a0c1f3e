package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/zatekoja/zoramarket/internal/adapters/catalog"
	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/evaluation"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

func main() {
	var goldenPath string
	var gate evaluation.QualityGate
	flag.StringVar(&goldenPath, "golden", "config/golden_queries.json", "path to the golden query set")
	flag.Float64Var(&gate.MinRecallAt10, "min-recall", 0, "fail when average recall@10 is below this")
	flag.Float64Var(&gate.MinMRRAt10, "min-mrr", 0, "fail when average MRR@10 is below this")
	flag.Float64Var(&gate.MinHitRate, "min-hit-rate", 0, "fail when the share of queries with results is below this")
	flag.IntVar(&gate.MaxFailed, "max-failed", 0, "number of failed searches tolerated")
	flag.Parse()

	observability.InitLogger("zora-search-evaluate", "development", os.Getenv("LOG_LEVEL"))
	logger := observability.GetLogger()

	queries, err := evaluation.LoadGoldenQueries(goldenPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load golden queries")
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		logger.Fatal().Err(err).Msg("Invalid golden queries")
	}

	products, err := catalog.NewMockCatalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load embedded catalog")
	}

	// Suggestion popularity is random by default; pin it so runs compare.
	search := services.NewAdvancedSearchService(products, services.WithPopularitySource(func() float64 { return 50 }))

	summary, err := evaluation.NewRunner(search).Run(context.Background(), queries)
	if err != nil {
		logger.Fatal().Err(err).Msg("Evaluation failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	if violations := gate.Check(summary); len(violations) > 0 {
		for _, v := range violations {
			logger.Error().Str("violation", v).Msg("Quality gate failed")
		}
		os.Exit(1)
	}
}
