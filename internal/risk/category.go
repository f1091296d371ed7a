package risk

import (
	"sort"

	"github.com/opensource-legal/gavel/internal/domain"
)

// AggregateByCategory groups clause risks by category and computes the
// weighted average score, high-risk count and top issues for each group.
// Categories come back sorted by risk score descending; ties keep first
// appearance order so repeated runs produce identical reports.
func (e *Engine) AggregateByCategory(clauseRisks []*domain.ClauseRisk) []*domain.CategoryRisk {
	groups := make(map[domain.ClauseCategory][]*domain.ClauseRisk)
	var order []domain.ClauseCategory
	for _, r := range clauseRisks {
		if _, seen := groups[r.Category]; !seen {
			order = append(order, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r)
	}

	categoryRisks := make([]*domain.CategoryRisk, 0, len(order))
	for _, cat := range order {
		risks := groups[cat]

		var totalWeight, weightedSum float64
		highRisk := 0
		for _, r := range risks {
			w := e.weights.Weight(r.Category)
			totalWeight += w
			weightedSum += r.RiskScore * w
			if r.RiskLevel.IsElevated() {
				highRisk++
			}
		}
		avg := 0.0
		if totalWeight > 0 {
			avg = weightedSum / totalWeight
		}
		// Classify the rounded score so the serialized value and its level
		// never disagree at a threshold boundary.
		avg = domain.Round2(avg)

		categoryRisks = append(categoryRisks, &domain.CategoryRisk{
			Category:        cat,
			CategoryDisplay: DisplayName(cat),
			RiskScore:       avg,
			RiskLevel:       domain.LevelForScore(avg),
			ClauseCount:     len(risks),
			HighRiskClauses: highRisk,
			TopIssues:       topIssues(risks),
			Clauses:         risks,
		})
	}

	sort.SliceStable(categoryRisks, func(i, j int) bool {
		return categoryRisks[i].RiskScore > categoryRisks[j].RiskScore
	})

	return categoryRisks
}

// topIssues lists the violated regulations cited by the highest scoring
// clauses of a category: up to two regulations from each of the top three
// clauses, deduplicated in first-seen order, capped at five.
func topIssues(risks []*domain.ClauseRisk) []string {
	ranked := make([]*domain.ClauseRisk, len(risks))
	copy(ranked, risks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RiskScore > ranked[j].RiskScore
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	issues := []string{}
	seen := make(map[string]bool)
	for _, r := range ranked {
		regs := r.ViolatedRegulations
		if len(regs) > 2 {
			regs = regs[:2]
		}
		for _, reg := range regs {
			if seen[reg] {
				continue
			}
			seen[reg] = true
			issues = append(issues, reg)
			if len(issues) == 5 {
				return issues
			}
		}
	}
	return issues
}
