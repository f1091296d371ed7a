package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/opensource-legal/gavel/internal/domain"
)

func TestSQLiteRepository(t *testing.T) {
	// Create temp database file
	tmpFile, err := os.CreateTemp("", "gavel-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	cfg := domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	}

	repo, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	tenantID := "tenant-001"

	t.Run("Ping", func(t *testing.T) {
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("SaveAndGetDocument", func(t *testing.T) {
		doc := &domain.Document{
			ID:     "doc-001",
			Title:  "Master Services Agreement",
			Status: domain.StatusPending,
			Clauses: []*domain.Clause{
				{
					ID:       "cl-001",
					Category: domain.CategoryLiability,
					Title:    "Limitation of Liability",
					RawText:  "Liability is limited to fees paid in the prior twelve months.",
				},
			},
			UploadedAt: time.Now().UTC(),
		}

		if err := repo.SaveDocument(ctx, tenantID, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		retrieved, err := repo.GetDocument(ctx, tenantID, doc.ID)
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}

		if retrieved.ID != doc.ID {
			t.Errorf("expected ID %s, got %s", doc.ID, retrieved.ID)
		}
		if retrieved.TenantID != tenantID {
			t.Errorf("expected TenantID %s, got %s", tenantID, retrieved.TenantID)
		}
		if len(retrieved.Clauses) != 1 || retrieved.Clauses[0].Category != domain.CategoryLiability {
			t.Errorf("clauses not round-tripped: %+v", retrieved.Clauses)
		}
	})

	t.Run("TenantIsolation", func(t *testing.T) {
		_, err := repo.GetDocument(ctx, "tenant-002", "doc-001")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound for different tenant, got: %v", err)
		}
	})

	t.Run("RequiresTenantID", func(t *testing.T) {
		doc := &domain.Document{ID: "doc-test"}

		if err := repo.SaveDocument(ctx, "", doc); err == nil {
			t.Error("expected error for empty tenantID")
		}

		if _, err := repo.GetDocument(ctx, "", "doc-001"); err == nil {
			t.Error("expected error for empty tenantID")
		}
	})

	t.Run("UpdateDocumentStatus", func(t *testing.T) {
		if err := repo.UpdateDocumentStatus(ctx, tenantID, "doc-001", domain.StatusCompleted, ""); err != nil {
			t.Fatalf("UpdateDocumentStatus failed: %v", err)
		}

		doc, err := repo.GetDocument(ctx, tenantID, "doc-001")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if doc.Status != domain.StatusCompleted {
			t.Errorf("expected completed, got %s", doc.Status)
		}
		if doc.AnalyzedAt == nil {
			t.Error("expected analyzedAt set on completion")
		}

		if err := repo.UpdateDocumentStatus(ctx, tenantID, "missing", domain.StatusFailed, "x"); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListDocuments", func(t *testing.T) {
		doc2 := &domain.Document{
			ID:         "doc-002",
			Title:      "NDA",
			Status:     domain.StatusPending,
			UploadedAt: time.Now().UTC(),
		}
		if err := repo.SaveDocument(ctx, tenantID, doc2); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		since := time.Now().Add(-1 * time.Hour)
		docs, err := repo.ListDocuments(ctx, tenantID, since)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("expected 2 documents, got %d", len(docs))
		}
	})

	t.Run("SaveAndGetReport", func(t *testing.T) {
		report := &domain.ContractRiskReport{
			ID:                   "rep-001",
			DocumentID:           "doc-001",
			AnalyzedAt:           time.Now().UTC(),
			OverallRiskScore:     67.5,
			OverallRiskLevel:     domain.LevelHigh,
			TotalClausesAnalyzed: 1,
			HighRiskClauseCount:  1,
			AllClauseRisks: []*domain.ClauseRisk{
				{ClauseID: "cl-001", Category: domain.CategoryLiability, RiskScore: 67.5, RiskLevel: domain.LevelHigh},
			},
			Summary: "This contract has an overall risk score of 68/100 (HIGH).",
		}

		if err := repo.SaveReport(ctx, tenantID, report); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}

		retrieved, err := repo.GetReport(ctx, tenantID, report.ID)
		if err != nil {
			t.Fatalf("GetReport failed: %v", err)
		}
		if retrieved.OverallRiskScore != report.OverallRiskScore {
			t.Errorf("expected score %.2f, got %.2f", report.OverallRiskScore, retrieved.OverallRiskScore)
		}
		if len(retrieved.AllClauseRisks) != 1 {
			t.Errorf("clause risks not round-tripped: %+v", retrieved.AllClauseRisks)
		}
	})

	t.Run("GetReportByDocumentReturnsLatest", func(t *testing.T) {
		older := &domain.ContractRiskReport{
			ID:               "rep-old",
			DocumentID:       "doc-002",
			AnalyzedAt:       time.Now().UTC().Add(-time.Hour),
			OverallRiskScore: 30,
			OverallRiskLevel: domain.LevelLow,
		}
		newer := &domain.ContractRiskReport{
			ID:               "rep-new",
			DocumentID:       "doc-002",
			AnalyzedAt:       time.Now().UTC(),
			OverallRiskScore: 45,
			OverallRiskLevel: domain.LevelMedium,
		}
		if err := repo.SaveReport(ctx, tenantID, older); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		if err := repo.SaveReport(ctx, tenantID, newer); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}

		got, err := repo.GetReportByDocument(ctx, tenantID, "doc-002")
		if err != nil {
			t.Fatalf("GetReportByDocument failed: %v", err)
		}
		if got.ID != "rep-new" {
			t.Errorf("expected latest report, got %s", got.ID)
		}
	})

	t.Run("ScreenRuleLifecycle", func(t *testing.T) {
		one := 1.0
		rule := &domain.ScreenRuleConfig{
			ID:          "rule-001",
			Name:        "Unlimited Liability",
			Description: "Flags uncapped liability",
			Version:     "1.0",
			Categories:  []domain.ClauseCategory{domain.CategoryLiability},
			Expression:  `text.contains("unlimited liability")`,
			Bands: []domain.ScreenBand{
				{LowerLimit: &one, Verdict: domain.VerdictViolation, Reason: "uncapped"},
			},
			ViolatedRegulations: []string{"SEC-10b-5"},
			Recommendations:     []string{"Add a cap"},
			Severity:            85,
			Enabled:             true,
		}

		if err := repo.SaveScreenRule(ctx, tenantID, rule); err != nil {
			t.Fatalf("SaveScreenRule failed: %v", err)
		}

		retrieved, err := repo.GetScreenRule(ctx, tenantID, rule.ID)
		if err != nil {
			t.Fatalf("GetScreenRule failed: %v", err)
		}
		if retrieved.Expression != rule.Expression || retrieved.Severity != 85 {
			t.Errorf("rule not round-tripped: %+v", retrieved)
		}
		if len(retrieved.Bands) != 1 || retrieved.Bands[0].Verdict != domain.VerdictViolation {
			t.Errorf("bands not round-tripped: %+v", retrieved.Bands)
		}

		rules, err := repo.ListScreenRules(ctx, tenantID)
		if err != nil {
			t.Fatalf("ListScreenRules failed: %v", err)
		}
		if len(rules) != 1 {
			t.Errorf("expected 1 rule, got %d", len(rules))
		}

		if err := repo.DeleteScreenRule(ctx, tenantID, rule.ID); err != nil {
			t.Fatalf("DeleteScreenRule failed: %v", err)
		}
		if _, err := repo.GetScreenRule(ctx, tenantID, rule.ID); err != ErrNotFound {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := repo.GetDocument(ctx, tenantID, "nonexistent"); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
		if _, err := repo.GetReport(ctx, tenantID, "nonexistent"); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := domain.RepositoryConfig{
		Driver: "mysql",
	}

	_, err := New(cfg)
	if err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	repo := &SQLRepository{driver: "postgres"}

	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT * FROM t WHERE id = ?", "SELECT * FROM t WHERE id = $1"},
		{"INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"SELECT * FROM t", "SELECT * FROM t"},
	}

	for _, tt := range tests {
		result := repo.rebind(tt.input)
		if result != tt.expected {
			t.Errorf("rebind(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
