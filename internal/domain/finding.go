package domain

// Citation points at a regulatory source matched during compliance analysis.
type Citation struct {
	RegulationID string `json:"regulationId"`
	Title        string `json:"title"`
	SourceURL    string `json:"sourceUrl"`
	Jurisdiction string `json:"jurisdiction"`
}

// ComplianceFinding is the structured verdict for one clause, produced by a
// compliance analyzer (the built-in screening engine or an external
// retrieval+reasoning collaborator). Zero or one finding exists per clause;
// the risk engine tolerates misses.
type ComplianceFinding struct {
	ClauseID            string         `json:"clauseId"`
	Category            ClauseCategory `json:"category"`
	ClauseText          string         `json:"clauseText,omitempty"`
	Compliant           bool           `json:"compliant"`
	RiskLevel           RiskLevel      `json:"riskLevel"`
	RiskScore           float64        `json:"riskScore"` // 0-100
	ViolatedRegulations []string       `json:"violatedRegulations"`
	MatchedRegulations  []Citation     `json:"matchedRegulations"`
	Explanation         string         `json:"explanation"`
	ReasoningChain      []string       `json:"reasoningChain,omitempty"`
	Recommendations     []string       `json:"recommendations"`
	Confidence          float64        `json:"confidence"` // 0-1
}

// ErrorFinding builds the degraded finding emitted when analysis of a clause
// fails. Upstream convention: score 75, level high, zero confidence. The risk
// engine treats it as ordinary input.
func ErrorFinding(clause *Clause, err error) *ComplianceFinding {
	text := CutAtRune(clause.RawText, 500)
	return &ComplianceFinding{
		ClauseID:            clause.ID,
		Category:            clause.Category,
		ClauseText:          text,
		Compliant:           false,
		RiskLevel:           LevelHigh,
		RiskScore:           75,
		ViolatedRegulations: []string{},
		MatchedRegulations:  []Citation{},
		Explanation:         "Analysis error: " + err.Error() + ". Manual review recommended.",
		ReasoningChain:      []string{"Analysis failed due to error"},
		Recommendations:     []string{"Manual legal review required"},
		Confidence:          0,
	}
}
