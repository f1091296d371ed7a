package screen

import (
	"context"
	"fmt"
	"strings"

	"github.com/opensource-legal/gavel/internal/domain"
)

// CitationSource resolves regulation IDs to full citations.
type CitationSource interface {
	Resolve(regulationID string) (domain.Citation, bool)
}

// baselineCompliantScore is the residual risk assigned to a clause no
// screening rule flagged.
const baselineCompliantScore = 10

// Screener turns screening rule verdicts into compliance findings. It is
// the built-in analyzer used when no external compliance service is
// configured.
type Screener struct {
	engine    *Engine
	citations CitationSource
}

// NewScreener creates a screener over a rule engine. citations may be nil,
// in which case findings carry regulation IDs without full citations.
func NewScreener(engine *Engine, citations CitationSource) *Screener {
	return &Screener{engine: engine, citations: citations}
}

// Analyze screens one clause and synthesizes a compliance finding from the
// rule verdicts. A rule evaluation error fails the whole clause so the
// pipeline can record it as an analysis error.
func (s *Screener) Analyze(ctx context.Context, tenantID string, clause *domain.Clause) (*domain.ComplianceFinding, error) {
	results, err := s.engine.EvaluateClause(ctx, tenantID, clause)
	if err != nil {
		return nil, err
	}

	var violations, reviews []domain.ScreenResult
	reasoning := make([]string, 0, len(results))
	for _, r := range results {
		switch r.Verdict {
		case domain.VerdictError:
			return nil, fmt.Errorf("screening rule %s: %s", r.RuleID, r.Reason)
		case domain.VerdictViolation:
			violations = append(violations, r)
			reasoning = append(reasoning, fmt.Sprintf("rule %s flagged a violation: %s", r.RuleID, r.Reason))
		case domain.VerdictReview:
			reviews = append(reviews, r)
			reasoning = append(reasoning, fmt.Sprintf("rule %s requested review: %s", r.RuleID, r.Reason))
		}
	}

	score := s.scoreVerdicts(violations, reviews)

	finding := &domain.ComplianceFinding{
		ClauseID:    clause.ID,
		Category:    clause.Category,
		ClauseText:  clause.Text(),
		Compliant:   len(violations) == 0,
		RiskScore:   score,
		RiskLevel:   domain.LevelForScore(score),
		Explanation: s.explain(clause, violations, reviews),
		Confidence:  screeningConfidence,
	}
	if len(reasoning) > 0 {
		finding.ReasoningChain = reasoning
	}

	seen := make(map[string]bool)
	for _, v := range violations {
		cfg := s.ruleConfig(v.RuleID)
		if cfg == nil {
			continue
		}
		for _, regID := range cfg.ViolatedRegulations {
			if seen[regID] {
				continue
			}
			seen[regID] = true
			finding.ViolatedRegulations = append(finding.ViolatedRegulations, regID)
			if s.citations != nil {
				if cite, ok := s.citations.Resolve(regID); ok {
					finding.MatchedRegulations = append(finding.MatchedRegulations, cite)
				}
			}
		}
		finding.Recommendations = append(finding.Recommendations, cfg.Recommendations...)
	}

	return finding, nil
}

// screeningConfidence is fixed: rule evaluation is deterministic, but the
// rules only see clause text, so the findings are not treated as certain.
const screeningConfidence = 0.9

// scoreVerdicts combines verdicts into a 0-100 risk score. The worst
// violation sets the floor, each further violation adds 10, and review
// verdicts count at half severity. A clean clause keeps baseline risk.
func (s *Screener) scoreVerdicts(violations, reviews []domain.ScreenResult) float64 {
	score := float64(baselineCompliantScore)

	var maxSeverity float64
	for _, v := range violations {
		if cfg := s.ruleConfig(v.RuleID); cfg != nil && cfg.Severity > maxSeverity {
			maxSeverity = cfg.Severity
		}
	}
	if maxSeverity > 0 {
		score = maxSeverity + float64(len(violations)-1)*10
	}

	for _, r := range reviews {
		if cfg := s.ruleConfig(r.RuleID); cfg != nil {
			half := cfg.Severity * 0.5
			if half > score {
				score = half
			}
		}
	}

	return domain.Clamp(score)
}

func (s *Screener) explain(clause *domain.Clause, violations, reviews []domain.ScreenResult) string {
	if len(violations) == 0 && len(reviews) == 0 {
		return fmt.Sprintf("No screening rule flagged this %s clause.", clause.Category)
	}

	var parts []string
	if len(violations) > 0 {
		parts = append(parts, fmt.Sprintf("%d screening rule(s) flagged violations", len(violations)))
	}
	if len(reviews) > 0 {
		parts = append(parts, fmt.Sprintf("%d rule(s) requested manual review", len(reviews)))
	}
	return fmt.Sprintf("Screening of this %s clause found issues: %s.", clause.Category, strings.Join(parts, "; "))
}

func (s *Screener) ruleConfig(ruleID string) *domain.ScreenRuleConfig {
	s.engine.mu.RLock()
	defer s.engine.mu.RUnlock()
	if compiled, ok := s.engine.compiledRules[ruleID]; ok {
		return compiled.Config
	}
	return nil
}
