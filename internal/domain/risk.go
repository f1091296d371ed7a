package domain

import (
	"math"
	"time"
)

// RiskLevel buckets a 0-100 risk score.
type RiskLevel string

const (
	LevelCritical RiskLevel = "critical"
	LevelHigh     RiskLevel = "high"
	LevelMedium   RiskLevel = "medium"
	LevelLow      RiskLevel = "low"
	LevelMinimal  RiskLevel = "minimal"
)

// LevelForScore maps a score to its risk level. Lower bounds are inclusive.
// Every level shown anywhere in the system comes through here; clause,
// category and overall scores must never classify differently.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	case score >= 20:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// IsElevated reports whether the level counts as high risk.
func (l RiskLevel) IsElevated() bool {
	return l == LevelHigh || l == LevelCritical
}

// RiskFactor records one term of a clause score derivation.
type RiskFactor struct {
	Factor      string  `json:"factor"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// ClauseRisk is the scored result for a single clause.
type ClauseRisk struct {
	ClauseID            string         `json:"clauseId"`
	Category            ClauseCategory `json:"category"`
	Title               string         `json:"title"`
	TextPreview         string         `json:"textPreview"`
	RiskScore           float64        `json:"riskScore"` // 0-100, clamped
	RiskLevel           RiskLevel      `json:"riskLevel"`
	ContributingFactors []RiskFactor   `json:"contributingFactors"`
	ViolatedRegulations []string       `json:"violatedRegulations"`
	Recommendations     []string       `json:"recommendations"`
	Explanation         string         `json:"explanation"`
	Confidence          float64        `json:"confidence"`
}

// CategoryRisk aggregates the clause risks of one category. Clauses is a
// shared reference into the report's clause risk list, not a copy.
type CategoryRisk struct {
	Category        ClauseCategory `json:"category"`
	CategoryDisplay string         `json:"categoryDisplay"`
	RiskScore       float64        `json:"riskScore"`
	RiskLevel       RiskLevel      `json:"riskLevel"`
	ClauseCount     int            `json:"clauseCount"`
	HighRiskClauses int            `json:"highRiskClauses"`
	TopIssues       []string       `json:"topIssues"`
	Clauses         []*ClauseRisk  `json:"clauses"`
}

// BreakdownTerm is one term of the overall score formula with its raw value
// and its contribution to the final score.
type BreakdownTerm struct {
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight,omitempty"`
	Contribution float64 `json:"contribution"`
}

// DensityTerm is the high-risk density penalty term of the breakdown.
type DensityTerm struct {
	HighRiskCount int     `json:"highRiskCount"`
	TotalClauses  int     `json:"totalClauses"`
	Density       float64 `json:"density"`
	Contribution  float64 `json:"contribution"`
}

// ScoringBreakdown records every term used to derive the overall score.
// Explainability is a hard requirement: an empty breakdown is only valid for
// an empty clause set.
type ScoringBreakdown struct {
	WeightedAverage *BreakdownTerm `json:"weightedAverage,omitempty"`
	MaxRiskPenalty  *BreakdownTerm `json:"maxRiskPenalty,omitempty"`
	HighRiskDensity *DensityTerm   `json:"highRiskDensity,omitempty"`
	Formula         string         `json:"formula,omitempty"`
}

// ContractRiskReport is the complete risk assessment for one document.
// Reports are built once per analysis run and never mutated afterwards.
type ContractRiskReport struct {
	ID                    string           `json:"id"`
	TenantID              string           `json:"tenantId,omitempty"`
	DocumentID            string           `json:"documentId"`
	AnalyzedAt            time.Time        `json:"analyzedAt"`
	OverallRiskScore      float64          `json:"overallRiskScore"`
	OverallRiskLevel      RiskLevel        `json:"overallRiskLevel"`
	TotalClausesAnalyzed  int              `json:"totalClausesAnalyzed"`
	HighRiskClauseCount   int              `json:"highRiskClauseCount"`
	MediumRiskClauseCount int              `json:"mediumRiskClauseCount"`
	LowRiskClauseCount    int              `json:"lowRiskClauseCount"`
	CategoryRisks         []*CategoryRisk  `json:"categoryRisks"`
	TopRisks              []*ClauseRisk    `json:"topRisks"`
	AllClauseRisks        []*ClauseRisk    `json:"allClauseRisks"`
	Summary               string           `json:"summary"`
	Citations             []Citation       `json:"citations"`
	Confidence            float64          `json:"confidence"`
	ScoringBreakdown      ScoringBreakdown `json:"scoringBreakdown"`
}

// Round2 rounds a score to two decimals for serialization boundaries.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds a score to [0,100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampUnit bounds a confidence to [0,1].
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
