package risk

import "github.com/opensource-legal/gavel/internal/domain"

// OverallScore combines clause risks into a single contract score plus the
// breakdown explaining every term.
//
// Three terms, summed then clamped to [0,100]:
//  1. weighted average of clause scores, scaled by 0.6
//  2. spread penalty: (max clause score - weighted average) * 0.3 when the
//     maximum exceeds the average, otherwise 0
//  3. high-risk density: (elevated count / total) * 20
//
// The sum-then-clamp order matters: clamping individual terms would hide
// how far a pathological contract overshoots.
func (e *Engine) OverallScore(clauseRisks []*domain.ClauseRisk) (float64, domain.ScoringBreakdown) {
	if len(clauseRisks) == 0 {
		return 0, domain.ScoringBreakdown{}
	}

	var totalWeight, weightedSum float64
	maxScore := 0.0
	highRiskCount := 0
	for _, r := range clauseRisks {
		w := e.weights.Weight(r.Category)
		totalWeight += w
		weightedSum += r.RiskScore * w
		if r.RiskScore > maxScore {
			maxScore = r.RiskScore
		}
		if r.RiskLevel.IsElevated() {
			highRiskCount++
		}
	}

	weightedAvg := 0.0
	if totalWeight > 0 {
		weightedAvg = weightedSum / totalWeight
	}

	maxPenalty := 0.0
	if maxScore > weightedAvg {
		maxPenalty = (maxScore - weightedAvg) * 0.3
	}

	density := float64(highRiskCount) / float64(len(clauseRisks))
	densityPenalty := density * 20

	overall := domain.Clamp(weightedAvg*0.6 + maxPenalty + densityPenalty)

	breakdown := domain.ScoringBreakdown{
		WeightedAverage: &domain.BreakdownTerm{
			Value:        domain.Round2(weightedAvg),
			Weight:       0.6,
			Contribution: domain.Round2(weightedAvg * 0.6),
		},
		MaxRiskPenalty: &domain.BreakdownTerm{
			Value:        domain.Round2(maxScore),
			Contribution: domain.Round2(maxPenalty),
		},
		HighRiskDensity: &domain.DensityTerm{
			HighRiskCount: highRiskCount,
			TotalClauses:  len(clauseRisks),
			Density:       domain.Round2(density),
			Contribution:  domain.Round2(densityPenalty),
		},
		Formula: "overall = (weighted_avg * 0.6) + max_penalty + density_penalty",
	}

	return overall, breakdown
}
