package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opensource-legal/gavel/internal/analysis"
	"github.com/opensource-legal/gavel/internal/domain"
	"github.com/opensource-legal/gavel/internal/regulations"
	"github.com/opensource-legal/gavel/internal/repository"
	"github.com/opensource-legal/gavel/internal/risk"
	"github.com/opensource-legal/gavel/internal/screen"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo       domain.Repository
	cache      domain.Cache
	bus        domain.EventBus
	engine     *screen.Engine
	pipeline   *analysis.Pipeline
	riskEngine *risk.Engine
	registry   *regulations.Registry
	version    string
	reportTTL  time.Duration
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, engine *screen.Engine, pipeline *analysis.Pipeline, riskEngine *risk.Engine, registry *regulations.Registry, version string, reportTTL time.Duration) *Handler {
	if reportTTL <= 0 {
		reportTTL = 10 * time.Minute
	}
	return &Handler{
		repo:       repo,
		cache:      cache,
		bus:        bus,
		engine:     engine,
		pipeline:   pipeline,
		riskEngine: riskEngine,
		registry:   registry,
		version:    version,
		reportTTL:  reportTTL,
	}
}

// ClauseInput is one extracted clause in an analysis request.
type ClauseInput struct {
	ID         string  `json:"id,omitempty"`
	Category   string  `json:"category"`
	Title      string  `json:"title,omitempty"`
	Text       string  `json:"text"`
	PageNumber int     `json:"pageNumber,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// FindingInput is an optional precomputed compliance finding supplied by a
// caller that runs its own analyzer. Clauses with a submitted finding skip
// the built-in screening pipeline.
type FindingInput struct {
	ClauseID            string   `json:"clauseId"`
	Compliant           bool     `json:"compliant"`
	RiskScore           float64  `json:"riskScore"`
	ViolatedRegulations []string `json:"violatedRegulations,omitempty"`
	Explanation         string   `json:"explanation,omitempty"`
	Recommendations     []string `json:"recommendations,omitempty"`
	Confidence          float64  `json:"confidence,omitempty"`
}

// AnalyzeRequest is the request body for POST /analyze.
type AnalyzeRequest struct {
	DocumentID string         `json:"documentId,omitempty"`
	Title      string         `json:"title"`
	Clauses    []ClauseInput  `json:"clauses"`
	Findings   []FindingInput `json:"findings,omitempty"`
}

// AnalyzeResponse is the response for POST /analyze.
type AnalyzeResponse struct {
	Report   *domain.ContractRiskReport `json:"report"`
	Metadata struct {
		TraceID string `json:"traceId"`
		TotalMs int64  `json:"totalMs"`
		Version string `json:"version"`
	} `json:"metadata"`
}

// Analyze handles POST /analyze requests: it persists the document, runs
// every clause through the screening pipeline and responds with the
// assembled risk report.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	traceID := GetTraceID(ctx)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "title is required",
		})
		return
	}
	if len(req.Clauses) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "at least one clause is required",
		})
		return
	}

	docID := req.DocumentID
	if docID == "" {
		docID = uuid.New().String()
	}

	clauses := make([]*domain.Clause, 0, len(req.Clauses))
	for i, in := range req.Clauses {
		if in.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "clause text is required",
			})
			return
		}
		id := in.ID
		if id == "" {
			id = domain.NewClauseID(docID, i, in.Text)
		}
		confidence := in.Confidence
		if confidence == 0 {
			confidence = 1.0
		}
		clauses = append(clauses, &domain.Clause{
			ID:         id,
			Category:   domain.ParseCategory(in.Category),
			Title:      in.Title,
			RawText:    in.Text,
			PageNumber: in.PageNumber,
			Confidence: confidence,
		})
	}

	doc := &domain.Document{
		ID:         docID,
		TenantID:   tenantID,
		Title:      req.Title,
		Status:     domain.StatusAnalyzing,
		Clauses:    clauses,
		UploadedAt: time.Now().UTC(),
	}

	if h.repo != nil {
		if err := h.repo.SaveDocument(ctx, tenantID, doc); err != nil {
			slog.Error("failed to save document", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save document",
			})
			return
		}
	}

	// Synchronous analysis (Community tier / direct mode). Clauses with a
	// caller-supplied finding bypass the screening pipeline.
	analyzable := doc.AnalyzableClauses()
	provided := h.buildProvidedFindings(clauses, req.Findings)

	toScreen := analyzable
	if len(provided) > 0 {
		toScreen = make([]*domain.Clause, 0, len(analyzable))
		for _, c := range analyzable {
			if _, ok := provided[c.ID]; !ok {
				toScreen = append(toScreen, c)
			}
		}
	}

	findings := h.pipeline.AnalyzeClauses(ctx, tenantID, toScreen)
	// Append in clause order so citation order is stable across requests
	for _, c := range analyzable {
		if f, ok := provided[c.ID]; ok {
			findings = append(findings, f)
		}
	}
	report := h.riskEngine.BuildReport(ctx, tenantID, docID, analyzable, findings)

	if h.cache != nil {
		if n, err := h.cache.IncrementCounter(ctx, tenantID, "analyses", 24*time.Hour); err == nil {
			slog.Debug("tenant analysis count", "tenant_id", tenantID, "count", n)
		}
	}

	if h.repo != nil {
		if err := h.repo.SaveReport(ctx, tenantID, report); err != nil {
			slog.Error("failed to save report", "document_id", docID, "error", err)
			_ = h.repo.UpdateDocumentStatus(ctx, tenantID, docID, domain.StatusFailed, err.Error())
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save report",
			})
			return
		}
		if err := h.repo.UpdateDocumentStatus(ctx, tenantID, docID, domain.StatusCompleted, ""); err != nil {
			slog.Error("failed to update document status", "document_id", docID, "error", err)
		}
	}

	if h.cache != nil {
		if err := h.cache.SetReport(ctx, tenantID, docID, report, h.reportTTL); err != nil {
			slog.Warn("failed to cache report", "document_id", docID, "error", err)
		}
	}

	if h.bus != nil {
		payload, _ := json.Marshal(report)
		if err := h.bus.Publish(ctx, tenantID, domain.TopicReportCompleted, payload); err != nil {
			slog.Error("failed to publish report", "document_id", docID, "error", err)
		}
		if report.OverallRiskLevel.IsElevated() {
			if err := h.bus.Publish(ctx, tenantID, domain.TopicReportAlert, payload); err != nil {
				slog.Error("failed to publish alert", "document_id", docID, "error", err)
			}
		}
	}

	resp := AnalyzeResponse{Report: report}
	resp.Metadata.TraceID = traceID
	resp.Metadata.TotalMs = time.Since(start).Milliseconds()
	resp.Metadata.Version = h.version

	writeJSON(w, http.StatusOK, resp)
}

// buildProvidedFindings converts caller-supplied findings into compliance
// findings keyed by clause ID. Findings referencing unknown clauses are
// dropped; scores and confidences are clamped and citations resolved from
// the regulation registry.
func (h *Handler) buildProvidedFindings(clauses []*domain.Clause, inputs []FindingInput) map[string]*domain.ComplianceFinding {
	if len(inputs) == 0 {
		return nil
	}

	clauseByID := make(map[string]*domain.Clause, len(clauses))
	for _, c := range clauses {
		clauseByID[c.ID] = c
	}

	findings := make(map[string]*domain.ComplianceFinding, len(inputs))
	for _, in := range inputs {
		clause, ok := clauseByID[in.ClauseID]
		if !ok {
			slog.Warn("finding references unknown clause", "clause_id", in.ClauseID)
			continue
		}

		score := domain.Clamp(in.RiskScore)
		citations := []domain.Citation{}
		if h.registry != nil {
			for _, regID := range in.ViolatedRegulations {
				if cite, ok := h.registry.Resolve(regID); ok {
					citations = append(citations, cite)
				}
			}
		}

		findings[in.ClauseID] = &domain.ComplianceFinding{
			ClauseID:            in.ClauseID,
			Category:            clause.Category,
			Compliant:           in.Compliant,
			RiskLevel:           domain.LevelForScore(score),
			RiskScore:           score,
			ViolatedRegulations: in.ViolatedRegulations,
			MatchedRegulations:  citations,
			Explanation:         in.Explanation,
			Recommendations:     in.Recommendations,
			Confidence:          domain.ClampUnit(in.Confidence),
		}
	}
	return findings
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	// Check repository health
	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	// Check cache health
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// GetReport retrieves a risk report by ID.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	reportID := chi.URLParam(r, "id")

	if reportID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "report id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	report, err := h.repo.GetReport(ctx, tenantID, reportID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("failed to get report", "id", reportID, "error", err)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "report not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetDocument retrieves a document by ID.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	docID := chi.URLParam(r, "id")

	if docID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "document id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	doc, err := h.repo.GetDocument(ctx, tenantID, docID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("failed to get document", "id", docID, "error", err)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "document not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// documentReport loads the latest report for a document, checking the cache
// before the repository and repopulating the cache on a miss.
func (h *Handler) documentReport(r *http.Request, docID string) (*domain.ContractRiskReport, error) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)

	if h.cache != nil {
		if report, err := h.cache.GetReport(ctx, tenantID, docID); err == nil && report != nil {
			return report, nil
		}
	}

	if h.repo == nil {
		return nil, repository.ErrNotFound
	}

	report, err := h.repo.GetReportByDocument(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetReport(ctx, tenantID, docID, report, h.reportTTL); err != nil {
			slog.Warn("failed to cache report", "document_id", docID, "error", err)
		}
	}

	return report, nil
}

// GetDocumentRisk retrieves the latest full risk report for a document.
func (h *Handler) GetDocumentRisk(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	if docID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "document id is required",
		})
		return
	}

	report, err := h.documentReport(r, docID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("failed to get document report", "document_id", docID, "error", err)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no report found for document",
		})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// RiskSummaryResponse is the condensed view of a document's risk report.
type RiskSummaryResponse struct {
	DocumentID            string            `json:"documentId"`
	OverallRiskScore      float64           `json:"overallRiskScore"`
	OverallRiskLevel      domain.RiskLevel  `json:"overallRiskLevel"`
	TotalClausesAnalyzed  int               `json:"totalClausesAnalyzed"`
	HighRiskClauseCount   int               `json:"highRiskClauseCount"`
	MediumRiskClauseCount int               `json:"mediumRiskClauseCount"`
	LowRiskClauseCount    int               `json:"lowRiskClauseCount"`
	Summary               string            `json:"summary"`
	Confidence            float64           `json:"confidence"`
	AnalyzedAt            time.Time         `json:"analyzedAt"`
	Categories            []CategorySummary `json:"categories"`
}

// CategorySummary is one category line in the risk summary.
type CategorySummary struct {
	Category        domain.ClauseCategory `json:"category"`
	CategoryDisplay string                `json:"categoryDisplay"`
	RiskScore       float64               `json:"riskScore"`
	RiskLevel       domain.RiskLevel      `json:"riskLevel"`
	ClauseCount     int                   `json:"clauseCount"`
}

// GetDocumentRiskSummary retrieves the condensed risk view for a document.
func (h *Handler) GetDocumentRiskSummary(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	if docID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "document id is required",
		})
		return
	}

	report, err := h.documentReport(r, docID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no report found for document",
		})
		return
	}

	summary := RiskSummaryResponse{
		DocumentID:            report.DocumentID,
		OverallRiskScore:      report.OverallRiskScore,
		OverallRiskLevel:      report.OverallRiskLevel,
		TotalClausesAnalyzed:  report.TotalClausesAnalyzed,
		HighRiskClauseCount:   report.HighRiskClauseCount,
		MediumRiskClauseCount: report.MediumRiskClauseCount,
		LowRiskClauseCount:    report.LowRiskClauseCount,
		Summary:               report.Summary,
		Confidence:            report.Confidence,
		AnalyzedAt:            report.AnalyzedAt,
	}
	for _, c := range report.CategoryRisks {
		summary.Categories = append(summary.Categories, CategorySummary{
			Category:        c.Category,
			CategoryDisplay: c.CategoryDisplay,
			RiskScore:       c.RiskScore,
			RiskLevel:       c.RiskLevel,
			ClauseCount:     c.ClauseCount,
		})
	}

	writeJSON(w, http.StatusOK, summary)
}

// GetClauseRisk retrieves the risk assessment of a single clause within a
// document's latest report.
func (h *Handler) GetClauseRisk(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	clauseID := chi.URLParam(r, "clauseId")

	if docID == "" || clauseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "document id and clause id are required",
		})
		return
	}

	report, err := h.documentReport(r, docID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no report found for document",
		})
		return
	}

	for _, c := range report.AllClauseRisks {
		if c.ClauseID == clauseID {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "clause not found in report",
	})
}

// ListScreenRules returns all loaded screening rules from the engine.
// Rules are loaded from the database at startup and can be reloaded via
// POST /screen-rules/reload.
func (h *Handler) ListScreenRules(w http.ResponseWriter, r *http.Request) {
	loadedRules := h.engine.GetLoadedRules()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rules": loadedRules,
		"count": len(loadedRules),
	})
}

// GetScreenRule retrieves a screening rule by ID from the loaded engine rules.
func (h *Handler) GetScreenRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")

	if ruleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule id is required",
		})
		return
	}

	for _, rule := range h.engine.GetLoadedRules() {
		if rule.ID == ruleID {
			writeJSON(w, http.StatusOK, rule)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "rule not found",
	})
}

// CreateScreenRuleRequest is the request body for creating a screening rule.
type CreateScreenRuleRequest struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	Categories          []string            `json:"categories,omitempty"`
	Expression          string              `json:"expression"`
	Bands               []domain.ScreenBand `json:"bands"`
	ViolatedRegulations []string            `json:"violatedRegulations,omitempty"`
	Recommendations     []string            `json:"recommendations,omitempty"`
	Severity            float64             `json:"severity"`
	Enabled             bool                `json:"enabled"`
}

// CreateScreenRule creates a new screening rule and saves it to the database.
// Rules are saved globally (tenant_id = "*") so they apply to all tenants.
// After saving, call POST /screen-rules/reload to hot-reload into the engine.
func (h *Handler) CreateScreenRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateScreenRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.ID == "" || req.Name == "" || req.Expression == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "id, name, and expression are required",
		})
		return
	}

	categories := make([]domain.ClauseCategory, 0, len(req.Categories))
	for _, c := range req.Categories {
		categories = append(categories, domain.ParseCategory(c))
	}

	severity := req.Severity
	if severity == 0 {
		severity = 50
	}

	ruleConfig := &domain.ScreenRuleConfig{
		ID:                  req.ID,
		TenantID:            GlobalTenantID,
		Name:                req.Name,
		Description:         req.Description,
		Version:             "1.0.0",
		Categories:          categories,
		Expression:          req.Expression,
		Bands:               req.Bands,
		ViolatedRegulations: req.ViolatedRegulations,
		Recommendations:     req.Recommendations,
		Severity:            severity,
		Enabled:             req.Enabled,
	}

	// Validate CEL expression by attempting to load
	if err := h.engine.LoadRule(ruleConfig); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid CEL expression: " + err.Error(),
		})
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveScreenRule(ctx, GlobalTenantID, ruleConfig); err != nil {
			slog.Error("failed to save screening rule", "id", ruleConfig.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save rule",
			})
			return
		}
	}

	slog.Info("screening rule created", "id", ruleConfig.ID, "name", ruleConfig.Name)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"rule":    ruleConfig,
		"message": "Rule created. Call POST /screen-rules/reload to apply changes.",
	})
}

// DeleteScreenRule disables a screening rule and auto-reloads the engine.
func (h *Handler) DeleteScreenRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ruleID := chi.URLParam(r, "id")

	if ruleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule id is required",
		})
		return
	}

	if h.repo != nil {
		if err := h.repo.DeleteScreenRule(ctx, GlobalTenantID, ruleID); err != nil {
			slog.Error("failed to delete screening rule", "id", ruleID, "error", err)
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "rule not found",
			})
			return
		}

		// Auto-reload engine after delete
		if err := h.reloadEngineRules(ctx); err != nil {
			slog.Error("failed to reload rules after delete", "error", err)
		}
	}

	slog.Info("screening rule deleted", "id", ruleID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rule deleted and engine reloaded.",
	})
}

// GlobalTenantID is used for screening rules that apply to all tenants.
const GlobalTenantID = "*"

// reloadEngineRules loads built-in rules plus database rules into the engine.
func (h *Handler) reloadEngineRules(ctx context.Context) error {
	dbRules, err := h.repo.ListScreenRules(ctx, GlobalTenantID)
	if err != nil {
		return err
	}
	return h.engine.ReloadRules(append(screen.BuiltinRules(), dbRules...))
}

// ReloadScreenRules reloads all screening rules from the database into the
// engine. This enables hot-reloading without server restart. Built-in rules
// are always retained.
func (h *Handler) ReloadScreenRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	if err := h.reloadEngineRules(ctx); err != nil {
		slog.Error("failed to reload screening rules", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to reload rules: " + err.Error(),
		})
		return
	}

	count := h.engine.RulesCount()
	slog.Info("screening rules reloaded", "count", count)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "rules reloaded successfully",
		"count":   count,
	})
}

// ListRegulations returns the curated regulation registry, optionally
// filtered by clause category via the ?category= query parameter.
func (h *Handler) ListRegulations(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "regulation registry not available",
		})
		return
	}

	category := r.URL.Query().Get("category")

	var articles []*regulations.Article
	if category != "" {
		articles = h.registry.ByCategory(domain.ParseCategory(category))
	} else {
		articles = h.registry.All()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"regulations": articles,
		"count":       len(articles),
	})
}

// GetRegulation retrieves a regulation article by ID.
func (h *Handler) GetRegulation(w http.ResponseWriter, r *http.Request) {
	regID := chi.URLParam(r, "id")

	if regID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "regulation id is required",
		})
		return
	}

	if h.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "regulation registry not available",
		})
		return
	}

	article, err := h.registry.Get(regID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "regulation not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
