package risk

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opensource-legal/gavel/internal/domain"
)

// Engine computes contract risk reports. All scoring is deterministic:
// the same clauses and findings always produce the same report apart from
// the report ID and timestamp.
type Engine struct {
	weights WeightTable
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine creates a risk engine with the default weight table.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		weights: DefaultWeightTable(),
		logger:  logger,
		now:     time.Now,
	}
}

// NewEngineWithWeights creates a risk engine with a custom weight table.
func NewEngineWithWeights(logger *slog.Logger, weights WeightTable) *Engine {
	e := NewEngine(logger)
	e.weights = weights
	return e
}

// BuildReport assembles the complete risk report for a document from its
// clauses and their compliance findings. Findings are matched to clauses by
// clause ID; clauses without a finding get the missing-analysis default.
func (e *Engine) BuildReport(ctx context.Context, tenantID, documentID string, clauses []*domain.Clause, findings []*domain.ComplianceFinding) *domain.ContractRiskReport {
	e.logger.InfoContext(ctx, "building risk report",
		"tenantId", tenantID,
		"documentId", documentID,
		"clauses", len(clauses),
		"findings", len(findings))

	findingByClause := make(map[string]*domain.ComplianceFinding, len(findings))
	for _, f := range findings {
		findingByClause[f.ClauseID] = f
	}

	clauseRisks := make([]*domain.ClauseRisk, 0, len(clauses))
	for _, c := range clauses {
		clauseRisks = append(clauseRisks, e.ScoreClause(c, findingByClause[c.ID]))
	}

	categoryRisks := e.AggregateByCategory(clauseRisks)
	overall, breakdown := e.OverallScore(clauseRisks)
	overall = domain.Round2(overall)
	level := domain.LevelForScore(overall)

	topRisks := make([]*domain.ClauseRisk, len(clauseRisks))
	copy(topRisks, clauseRisks)
	sort.SliceStable(topRisks, func(i, j int) bool {
		return topRisks[i].RiskScore > topRisks[j].RiskScore
	})
	if len(topRisks) > 5 {
		topRisks = topRisks[:5]
	}

	var high, medium, low int
	var confidenceSum float64
	for _, r := range clauseRisks {
		switch {
		case r.RiskLevel.IsElevated():
			high++
		case r.RiskLevel == domain.LevelMedium:
			medium++
		default:
			low++
		}
		confidenceSum += r.Confidence
	}
	confidence := 0.0
	if len(clauseRisks) > 0 {
		confidence = confidenceSum / float64(len(clauseRisks))
	}

	return &domain.ContractRiskReport{
		ID:                    uuid.New().String(),
		TenantID:              tenantID,
		DocumentID:            documentID,
		AnalyzedAt:            e.now().UTC(),
		OverallRiskScore:      overall,
		OverallRiskLevel:      level,
		TotalClausesAnalyzed:  len(clauseRisks),
		HighRiskClauseCount:   high,
		MediumRiskClauseCount: medium,
		LowRiskClauseCount:    low,
		CategoryRisks:         categoryRisks,
		TopRisks:              topRisks,
		AllClauseRisks:        clauseRisks,
		Summary:               summarize(overall, level, categoryRisks, topRisks),
		Citations:             collectCitations(findings),
		Confidence:            confidence,
		ScoringBreakdown:      breakdown,
	}
}

// levelQualifiers phrase each overall risk level for the summary.
var levelQualifiers = map[domain.RiskLevel]string{
	domain.LevelCritical: "requires immediate attention",
	domain.LevelHigh:     "contains significant compliance concerns",
	domain.LevelMedium:   "has moderate compliance issues that should be addressed",
	domain.LevelLow:      "has minor issues that may warrant review",
	domain.LevelMinimal:  "appears to be well-structured with minimal compliance concerns",
}

func summarize(score float64, level domain.RiskLevel, categories []*domain.CategoryRisk, topRisks []*domain.ClauseRisk) string {
	parts := []string{
		fmt.Sprintf("This contract has an overall risk score of %.0f/100 (%s) and %s.",
			score, strings.ToUpper(string(level)), levelQualifiers[level]),
	}

	var concernNames []string
	for _, c := range categories {
		if c.RiskLevel.IsElevated() {
			concernNames = append(concernNames, c.CategoryDisplay)
			if len(concernNames) == 3 {
				break
			}
		}
	}
	if len(concernNames) > 0 {
		parts = append(parts, fmt.Sprintf("Key areas of concern include: %s.", strings.Join(concernNames, ", ")))
	}

	var violations []string
	seen := make(map[string]bool)
	for _, r := range topRisks {
		for _, reg := range r.ViolatedRegulations {
			if seen[reg] {
				continue
			}
			seen[reg] = true
			violations = append(violations, reg)
		}
	}
	if len(violations) > 3 {
		violations = violations[:3]
	}
	if len(violations) > 0 {
		parts = append(parts, fmt.Sprintf("Potentially violated regulations: %s.", strings.Join(violations, ", ")))
	}

	return strings.Join(parts, " ")
}

// collectCitations gathers every matched regulation across findings,
// deduplicated by regulation ID in first-seen order.
func collectCitations(findings []*domain.ComplianceFinding) []domain.Citation {
	citations := []domain.Citation{}
	seen := make(map[string]bool)
	for _, f := range findings {
		for _, reg := range f.MatchedRegulations {
			if seen[reg.RegulationID] {
				continue
			}
			seen[reg.RegulationID] = true
			citations = append(citations, reg)
		}
	}
	return citations
}
