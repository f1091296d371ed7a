package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/opensource-legal/gavel/internal/analysis"
	"github.com/opensource-legal/gavel/internal/domain"
	"github.com/opensource-legal/gavel/internal/regulations"
	"github.com/opensource-legal/gavel/internal/repository"
	"github.com/opensource-legal/gavel/internal/risk"
	"github.com/opensource-legal/gavel/internal/screen"
)

// createTestServer creates a server backed by a temp SQLite database and the
// built-in screening rules.
func createTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := domain.ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30,
		WriteTimeout: 30,
	}

	tmpFile, err := os.CreateTemp("", "gavel-api-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpPath) })

	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	engine, err := screen.NewEngine(5)
	if err != nil {
		t.Fatalf("failed to create screening engine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	if err := engine.LoadRules(screen.BuiltinRules()); err != nil {
		t.Fatalf("failed to load builtin rules: %v", err)
	}

	registry := regulations.NewRegistry()
	screener := screen.NewScreener(engine, registry)
	pipeline := analysis.NewPipeline(screener, 5, slog.Default())
	riskEngine := risk.NewEngine(slog.Default())

	return NewServer(cfg, repo, nil, nil, engine, pipeline, riskEngine, registry, "test-v1", time.Minute)
}

// riskyContractRequest builds a request whose liability clause trips the
// built-in unlimited liability rule.
func riskyContractRequest() AnalyzeRequest {
	return AnalyzeRequest{
		Title: "Master Services Agreement",
		Clauses: []ClauseInput{
			{
				Category:   "liability",
				Title:      "Limitation of Liability",
				Text:       "The Contractor shall bear unlimited liability for any and all damages arising out of or in connection with this agreement.",
				Confidence: 0.95,
			},
			{
				Category:   "payment_terms",
				Title:      "Payment Terms",
				Text:       "Invoices shall be paid within thirty days of receipt, subject to the disputed amounts procedure described below.",
				Confidence: 0.9,
			},
		},
	}
}

func postAnalyze(t *testing.T, server *Server, req AnalyzeRequest) AnalyzeResponse {
	t.Helper()

	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-ID", "tenant-001")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, httpReq)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestAnalyzeEndpoint(t *testing.T) {
	server := createTestServer(t)

	t.Run("SuccessfulAnalysis", func(t *testing.T) {
		resp := postAnalyze(t, server, riskyContractRequest())

		if resp.Report == nil {
			t.Fatal("expected report in response")
		}
		if resp.Report.ID == "" {
			t.Error("expected report ID")
		}
		if resp.Report.DocumentID == "" {
			t.Error("expected document ID")
		}
		if resp.Report.TotalClausesAnalyzed != 2 {
			t.Errorf("expected 2 clauses analyzed, got %d", resp.Report.TotalClausesAnalyzed)
		}
		if resp.Report.HighRiskClauseCount != 1 {
			t.Errorf("expected 1 high risk clause for unlimited liability, got %d", resp.Report.HighRiskClauseCount)
		}
		if len(resp.Report.TopRisks) == 0 || !resp.Report.TopRisks[0].RiskLevel.IsElevated() {
			t.Error("expected the liability clause to rank as an elevated top risk")
		}
		if resp.Report.Summary == "" {
			t.Error("expected non-empty summary")
		}
		if resp.Metadata.Version != "test-v1" {
			t.Errorf("expected version test-v1, got %s", resp.Metadata.Version)
		}
		if resp.Metadata.TraceID == "" {
			t.Error("expected traceId in metadata")
		}
	})

	t.Run("PrecomputedFindings", func(t *testing.T) {
		req := AnalyzeRequest{
			Title: "Externally Analyzed Agreement",
			Clauses: []ClauseInput{
				{
					ID:         "clause-ext-1",
					Category:   "governing_law",
					Title:      "Governing Law",
					Text:       "This Agreement shall be governed by the laws of the State of Delaware without regard to conflict of law principles.",
					Confidence: 0.95,
				},
			},
			Findings: []FindingInput{
				{
					ClauseID:            "clause-ext-1",
					Compliant:           false,
					RiskScore:           90,
					ViolatedRegulations: []string{"GDPR-Art-5"},
					Explanation:         "external analyzer flagged the governing law selection",
					Recommendations:     []string{"review choice of law"},
					Confidence:          0.8,
				},
			},
		}
		resp := postAnalyze(t, server, req)

		if len(resp.Report.AllClauseRisks) != 1 {
			t.Fatalf("expected 1 clause risk, got %d", len(resp.Report.AllClauseRisks))
		}
		risk := resp.Report.AllClauseRisks[0]
		// 90 * 1.0 weight, then the 0.9 confidence adjustment
		if risk.RiskScore != 81 {
			t.Errorf("expected clause score 81 from the submitted finding, got %.2f", risk.RiskScore)
		}
		if risk.Explanation != "external analyzer flagged the governing law selection" {
			t.Errorf("expected the submitted explanation to pass through, got %q", risk.Explanation)
		}
		if len(resp.Report.Citations) != 1 || resp.Report.Citations[0].RegulationID != "GDPR-Art-5" {
			t.Errorf("expected the violated regulation resolved to a citation, got %v", resp.Report.Citations)
		}
	})

	t.Run("CitationOrderStable", func(t *testing.T) {
		req := AnalyzeRequest{
			Title: "Repeatedly Analyzed Agreement",
			Clauses: []ClauseInput{
				{
					ID:       "clause-ord-1",
					Category: "data_protection",
					Text:     "Personal data shall be processed only on a documented lawful basis under applicable data protection law.",
				},
				{
					ID:       "clause-ord-2",
					Category: "data_protection",
					Text:     "The processor shall obtain and record consent from data subjects before any processing activity begins.",
				},
				{
					ID:       "clause-ord-3",
					Category: "termination",
					Text:     "Upon termination of this Agreement all personal data shall be erased within thirty days of the effective date.",
				},
			},
			Findings: []FindingInput{
				{ClauseID: "clause-ord-1", RiskScore: 70, ViolatedRegulations: []string{"GDPR-Art-5"}, Confidence: 0.9},
				{ClauseID: "clause-ord-2", RiskScore: 60, ViolatedRegulations: []string{"GDPR-Art-6"}, Confidence: 0.9},
				{ClauseID: "clause-ord-3", RiskScore: 50, ViolatedRegulations: []string{"GDPR-Art-17"}, Confidence: 0.9},
			},
		}
		want := []string{"GDPR-Art-5", "GDPR-Art-6", "GDPR-Art-17"}

		// Citation order follows clause order, on every request
		for i := 0; i < 10; i++ {
			resp := postAnalyze(t, server, req)
			if len(resp.Report.Citations) != len(want) {
				t.Fatalf("run %d: expected %d citations, got %d", i, len(want), len(resp.Report.Citations))
			}
			for j, c := range resp.Report.Citations {
				if c.RegulationID != want[j] {
					t.Fatalf("run %d: citation %d is %s, want %s", i, j, c.RegulationID, want[j])
				}
			}
		}
	})

	t.Run("MissingTenantID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		// No X-Tenant-ID header

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString("not-json"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("MissingTitle", func(t *testing.T) {
		reqBody := AnalyzeRequest{
			Clauses: []ClauseInput{{Category: "liability", Text: "Some clause text long enough to analyze."}},
		}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("MissingClauses", func(t *testing.T) {
		reqBody := AnalyzeRequest{Title: "Empty Contract"}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("EmptyClauseText", func(t *testing.T) {
		reqBody := AnalyzeRequest{
			Title:   "Contract",
			Clauses: []ClauseInput{{Category: "liability", Text: ""}},
		}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("ResponseHeaders", func(t *testing.T) {
		body, _ := json.Marshal(riskyContractRequest())
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Header().Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header in response")
		}
		if rr.Header().Get("X-Trace-ID") == "" {
			t.Error("expected X-Trace-ID header in response")
		}
		if rr.Header().Get("Content-Type") != "application/json" {
			t.Error("expected Content-Type: application/json")
		}
	})
}

func TestReportEndpoints(t *testing.T) {
	server := createTestServer(t)

	resp := postAnalyze(t, server, riskyContractRequest())
	reportID := resp.Report.ID
	docID := resp.Report.DocumentID

	get := func(t *testing.T, path string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Tenant-ID", "tenant-001")
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		return rr
	}

	t.Run("GetReportByID", func(t *testing.T) {
		rr := get(t, "/reports/"+reportID)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var report domain.ContractRiskReport
		if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
			t.Fatalf("failed to parse report: %v", err)
		}
		if report.ID != reportID {
			t.Errorf("expected report %s, got %s", reportID, report.ID)
		}
	})

	t.Run("GetReportNotFound", func(t *testing.T) {
		rr := get(t, "/reports/no-such-report")
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})

	t.Run("GetDocument", func(t *testing.T) {
		rr := get(t, "/documents/"+docID)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var doc domain.Document
		if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
			t.Fatalf("failed to parse document: %v", err)
		}
		if doc.Status != domain.StatusCompleted {
			t.Errorf("expected status completed, got %s", doc.Status)
		}
	})

	t.Run("GetDocumentRisk", func(t *testing.T) {
		rr := get(t, "/documents/"+docID+"/risk")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var report domain.ContractRiskReport
		if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
			t.Fatalf("failed to parse report: %v", err)
		}
		if report.DocumentID != docID {
			t.Errorf("expected documentID %s, got %s", docID, report.DocumentID)
		}
		if len(report.AllClauseRisks) != 2 {
			t.Errorf("expected 2 clause risks, got %d", len(report.AllClauseRisks))
		}
	})

	t.Run("GetDocumentRiskSummary", func(t *testing.T) {
		rr := get(t, "/documents/"+docID+"/risk/summary")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var summary RiskSummaryResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
			t.Fatalf("failed to parse summary: %v", err)
		}
		if summary.DocumentID != docID {
			t.Errorf("expected documentID %s, got %s", docID, summary.DocumentID)
		}
		if summary.Summary == "" {
			t.Error("expected non-empty summary text")
		}
		if len(summary.Categories) == 0 {
			t.Error("expected category breakdown in summary")
		}
	})

	t.Run("GetClauseRisk", func(t *testing.T) {
		clauseID := resp.Report.AllClauseRisks[0].ClauseID

		rr := get(t, "/documents/"+docID+"/clauses/"+clauseID)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var clauseRisk domain.ClauseRisk
		if err := json.Unmarshal(rr.Body.Bytes(), &clauseRisk); err != nil {
			t.Fatalf("failed to parse clause risk: %v", err)
		}
		if clauseRisk.ClauseID != clauseID {
			t.Errorf("expected clause %s, got %s", clauseID, clauseRisk.ClauseID)
		}
	})

	t.Run("GetClauseRiskNotFound", func(t *testing.T) {
		rr := get(t, "/documents/"+docID+"/clauses/no-such-clause")
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})

	t.Run("GetDocumentRiskNotFound", func(t *testing.T) {
		rr := get(t, "/documents/no-such-doc/risk")
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})
}

func TestScreenRuleEndpoints(t *testing.T) {
	server := createTestServer(t)

	t.Run("ListRules", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/screen-rules", nil)
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var resp struct {
			Rules []*domain.ScreenRuleConfig `json:"rules"`
			Count int                        `json:"count"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp.Count == 0 {
			t.Error("expected builtin rules to be loaded")
		}
	})

	t.Run("CreateRule", func(t *testing.T) {
		reqBody := CreateScreenRuleRequest{
			ID:          "custom-auto-renewal",
			Name:        "Auto Renewal Without Notice",
			Expression:  `text.contains("automatically renew")`,
			Categories:  []string{"termination"},
			Severity:    45,
			Enabled:     true,
			Bands:       []domain.ScreenBand{},
			Description: "Flags automatic renewal clauses",
		}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/screen-rules", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("GetRule", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/screen-rules/custom-auto-renewal", nil)
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var rule domain.ScreenRuleConfig
		if err := json.Unmarshal(rr.Body.Bytes(), &rule); err != nil {
			t.Fatalf("failed to parse rule: %v", err)
		}
		if rule.ID != "custom-auto-renewal" {
			t.Errorf("expected rule custom-auto-renewal, got %s", rule.ID)
		}
	})

	t.Run("CreateInvalidExpression", func(t *testing.T) {
		reqBody := CreateScreenRuleRequest{
			ID:         "bad-rule",
			Name:       "Bad Rule",
			Expression: "this is not CEL ((",
			Enabled:    true,
		}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/screen-rules", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("ReloadRules", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/screen-rules/reload", nil)
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp struct {
			Count int `json:"count"`
		}
		json.Unmarshal(rr.Body.Bytes(), &resp)

		// Builtins plus the custom rule created above
		if resp.Count != len(screen.BuiltinRules())+1 {
			t.Errorf("expected %d rules after reload, got %d", len(screen.BuiltinRules())+1, resp.Count)
		}
	})

	t.Run("DeleteRule", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/screen-rules/custom-auto-renewal", nil)
		req.Header.Set("X-Tenant-ID", "tenant-001")

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		// Engine reloaded without the deleted rule
		if got := server.Handler().engine.RulesCount(); got != len(screen.BuiltinRules()) {
			t.Errorf("expected %d rules after delete, got %d", len(screen.BuiltinRules()), got)
		}
	})
}

func TestRegulationEndpoints(t *testing.T) {
	server := createTestServer(t)

	get := func(t *testing.T, path string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Tenant-ID", "tenant-001")
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		return rr
	}

	t.Run("ListAll", func(t *testing.T) {
		rr := get(t, "/regulations")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var resp struct {
			Regulations []json.RawMessage `json:"regulations"`
			Count       int               `json:"count"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp.Count == 0 {
			t.Error("expected curated regulations")
		}
	})

	t.Run("FilterByCategory", func(t *testing.T) {
		rr := get(t, "/regulations?category=data_protection")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var resp struct {
			Count int `json:"count"`
		}
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp.Count == 0 {
			t.Error("expected data protection regulations")
		}
	})

	t.Run("GetByID", func(t *testing.T) {
		rr := get(t, "/regulations/GDPR-Art-5")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		rr := get(t, "/regulations/NO-SUCH-REG")
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	server := createTestServer(t)

	t.Run("HealthCheck", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}

		var resp map[string]string
		json.Unmarshal(rr.Body.Bytes(), &resp)

		if resp["status"] != "healthy" {
			t.Errorf("expected status 'healthy', got '%s'", resp["status"])
		}
		if resp["version"] != "test-v1" {
			t.Errorf("expected version 'test-v1', got '%s'", resp["version"])
		}
	})

	t.Run("ReadyCheck", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)

		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("TenantMiddlewareExtractsID", func(t *testing.T) {
		var capturedTenantID string

		handler := TenantMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedTenantID = GetTenantID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Tenant-ID", "my-tenant-123")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if capturedTenantID != "my-tenant-123" {
			t.Errorf("expected tenant ID 'my-tenant-123', got '%s'", capturedTenantID)
		}
	})

	t.Run("TracingMiddlewareSetsRequestID", func(t *testing.T) {
		var capturedRequestID string

		handler := TracingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v, ok := r.Context().Value(RequestIDKey).(string); ok {
				capturedRequestID = v
			}
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if capturedRequestID == "" {
			t.Error("expected request ID to be set")
		}

		if rr.Header().Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID response header")
		}
	})

	t.Run("RecoverMiddlewareHandlesPanic", func(t *testing.T) {
		handler := RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		// Should not panic
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rr.Code)
		}
	})
}
