package evaluation

import "fmt"

// QualityGate holds the minimum aggregate scores a search build must reach.
// Zero thresholds are not checked.
type QualityGate struct {
	MinRecallAt10 float64
	MinMRRAt10    float64
	MinHitRate    float64
	MaxFailed     int
}

// Check returns one message per violated threshold; empty means the gate passes.
func (g QualityGate) Check(s *EvalSummary) []string {
	var violations []string
	if g.MinRecallAt10 > 0 && s.AvgRecallAt10 < g.MinRecallAt10 {
		violations = append(violations, fmt.Sprintf("recall@10 %.3f below %.3f", s.AvgRecallAt10, g.MinRecallAt10))
	}
	if g.MinMRRAt10 > 0 && s.AvgMRRAt10 < g.MinMRRAt10 {
		violations = append(violations, fmt.Sprintf("mrr@10 %.3f below %.3f", s.AvgMRRAt10, g.MinMRRAt10))
	}
	if g.MinHitRate > 0 && s.HitRate() < g.MinHitRate {
		violations = append(violations, fmt.Sprintf("hit rate %.3f below %.3f", s.HitRate(), g.MinHitRate))
	}
	if s.FailedQueries > g.MaxFailed {
		violations = append(violations, fmt.Sprintf("%d queries failed, %d allowed", s.FailedQueries, g.MaxFailed))
	}
	return violations
}
