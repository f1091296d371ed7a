package risk

import (
	"fmt"

	"github.com/opensource-legal/gavel/internal/domain"
)

const previewLength = 300

// ScoreClause derives the risk for a single clause from its compliance
// finding. The derivation is three ordered factors: base compliance score,
// clause type weight, confidence adjustment. A nil finding falls back to
// MissingFindingRisk.
func (e *Engine) ScoreClause(clause *domain.Clause, finding *domain.ComplianceFinding) *domain.ClauseRisk {
	if finding == nil {
		return e.MissingFindingRisk(clause)
	}

	base := domain.Clamp(finding.RiskScore)
	weight := e.weights.Weight(clause.Category)

	weighted := base * weight
	if weighted > 100 {
		weighted = 100
	}

	confidence := domain.ClampUnit(finding.Confidence)
	confidenceFactor := 0.5 + confidence*0.5
	final := domain.Round2(domain.Clamp(weighted * confidenceFactor))

	factors := []domain.RiskFactor{
		{
			Factor:      "Base Compliance Score",
			Value:       base,
			Description: "Score from regulatory compliance analysis",
		},
		{
			Factor:      "Clause Type Weight",
			Value:       weight,
			Description: fmt.Sprintf("Importance weight for %s", clause.Category),
		},
		{
			Factor:      "Confidence Factor",
			Value:       confidenceFactor,
			Description: "Adjustment based on analysis confidence",
		},
	}

	return &domain.ClauseRisk{
		ClauseID:            clause.ID,
		Category:            clause.Category,
		Title:               clause.Title,
		TextPreview:         preview(clause.Text()),
		RiskScore:           final,
		RiskLevel:           domain.LevelForScore(final),
		ContributingFactors: factors,
		ViolatedRegulations: finding.ViolatedRegulations,
		Recommendations:     finding.Recommendations,
		Explanation:         finding.Explanation,
		Confidence:          confidence,
	}
}

// MissingFindingRisk assigns the default medium risk to a clause whose
// compliance analysis is unavailable. The single contributing factor makes
// the gap visible in the report instead of silently scoring zero.
func (e *Engine) MissingFindingRisk(clause *domain.Clause) *domain.ClauseRisk {
	return &domain.ClauseRisk{
		ClauseID:    clause.ID,
		Category:    clause.Category,
		Title:       clause.Title,
		TextPreview: preview(clause.Text()),
		RiskScore:   50,
		RiskLevel:   domain.LevelMedium,
		ContributingFactors: []domain.RiskFactor{
			{
				Factor:      "Missing Analysis",
				Value:       50,
				Description: "Default score - analysis not available",
			},
		},
		ViolatedRegulations: []string{},
		Recommendations:     []string{"Manual review recommended"},
		Explanation:         "Compliance analysis not available for this clause.",
		Confidence:          0,
	}
}

func preview(text string) string {
	return domain.CutAtRune(text, previewLength) + "..."
}
