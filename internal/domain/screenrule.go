package domain

// ScreenRuleConfig defines a clause screening rule configuration.
// Screening rules run CEL expressions over extracted clauses to produce
// baseline compliance findings before risk scoring.
type ScreenRuleConfig struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenantId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`

	// Categories this rule applies to; empty means all categories.
	Categories []ClauseCategory `json:"categories,omitempty"`

	// CEL expression to evaluate against a clause
	Expression string `json:"expression"`

	// Outcome bands for score-to-verdict mapping
	Bands []ScreenBand `json:"bands"`

	// Regulations cited when the rule flags a violation
	ViolatedRegulations []string `json:"violatedRegulations,omitempty"`

	// Recommendations attached to a flagged clause
	Recommendations []string `json:"recommendations,omitempty"`

	// Severity is the 0-100 base risk contributed when this rule flags
	// a violation
	Severity float64 `json:"severity"`

	// Whether rule is active
	Enabled bool `json:"enabled"`
}

// ScreenBand maps a score range to a verdict.
type ScreenBand struct {
	LowerLimit *float64 `json:"lowerLimit,omitempty"`
	UpperLimit *float64 `json:"upperLimit,omitempty"`
	Verdict    string   `json:"verdict"` // e.g., ".compliant", ".violation", ".review"
	Reason     string   `json:"reason"`
}

// ScreenResult is the output of a screening rule evaluation.
type ScreenResult struct {
	RuleID    string  `json:"ruleId"`
	TenantID  string  `json:"tenantId"`
	ClauseID  string  `json:"clauseId"`
	Verdict   string  `json:"verdict"`
	Score     float64 `json:"score"` // The computed value
	Reason    string  `json:"reason"`
	ProcessMs int64   `json:"processMs"` // Processing time in milliseconds
}

// Predefined screening verdicts
const (
	VerdictCompliant = ".compliant"
	VerdictViolation = ".violation"
	VerdictReview    = ".review"
	VerdictError     = ".err"
)
