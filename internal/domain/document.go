package domain

import "time"

// AnalysisStatus tracks a document through the analysis lifecycle.
type AnalysisStatus string

const (
	StatusPending   AnalysisStatus = "pending"
	StatusAnalyzing AnalysisStatus = "analyzing"
	StatusCompleted AnalysisStatus = "completed"
	StatusFailed    AnalysisStatus = "failed"
)

// Document is a contract submitted for analysis together with its extracted
// clauses. Clause extraction happens upstream; the engine only scores.
type Document struct {
	ID         string         `json:"id"`
	TenantID   string         `json:"tenantId,omitempty"`
	Title      string         `json:"title"`
	Status     AnalysisStatus `json:"status"`
	Clauses    []*Clause      `json:"clauses"`
	UploadedAt time.Time      `json:"uploadedAt"`
	AnalyzedAt *time.Time     `json:"analyzedAt,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// AnalyzableClauses filters out clauses too short to score meaningfully.
func (d *Document) AnalyzableClauses() []*Clause {
	out := make([]*Clause, 0, len(d.Clauses))
	for _, c := range d.Clauses {
		if len(c.Text()) >= MinClauseTextLength {
			out = append(out, c)
		}
	}
	return out
}

// MinClauseTextLength is the shortest clause text worth scoring.
const MinClauseTextLength = 10
