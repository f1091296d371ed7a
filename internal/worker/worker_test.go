package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opensource-legal/gavel/internal/analysis"
	"github.com/opensource-legal/gavel/internal/bus"
	"github.com/opensource-legal/gavel/internal/domain"
	"github.com/opensource-legal/gavel/internal/repository"
	"github.com/opensource-legal/gavel/internal/risk"
)

// scoringAnalyzer returns a fixed finding per clause so tests control the
// resulting report level.
type scoringAnalyzer struct {
	score float64
}

func (a *scoringAnalyzer) Analyze(ctx context.Context, tenantID string, clause *domain.Clause) (*domain.ComplianceFinding, error) {
	return &domain.ComplianceFinding{
		ClauseID:            clause.ID,
		Category:            clause.Category,
		Compliant:           a.score < 40,
		RiskLevel:           domain.LevelForScore(a.score),
		RiskScore:           a.score,
		ViolatedRegulations: []string{},
		MatchedRegulations:  []domain.Citation{},
		Explanation:         "test finding",
		Recommendations:     []string{},
		Confidence:          0.9,
	}, nil
}

func newTestRepo(t *testing.T) domain.Repository {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "gavel-worker-*.db")
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

	return repo
}

func testDocument(id, tenantID string) *domain.Document {
	return &domain.Document{
		ID:       id,
		TenantID: tenantID,
		Title:    "Master Services Agreement",
		Status:   domain.StatusPending,
		Clauses: []*domain.Clause{
			{
				ID:         "cl-001",
				Category:   domain.CategoryLiability,
				Title:      "Limitation of Liability",
				RawText:    "Contractor accepts unlimited liability for all damages arising under this agreement.",
				Confidence: 0.95,
			},
			{
				ID:         "cl-002",
				Category:   domain.CategoryDataProtection,
				Title:      "Data Processing",
				RawText:    "Personal data will be processed as needed for performance of the services.",
				Confidence: 0.9,
			},
		},
		UploadedAt: time.Now().UTC(),
	}
}

func TestWorker(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	repo := newTestRepo(t)

	pipeline := analysis.NewPipeline(&scoringAnalyzer{score: 30}, 5, slog.Default())
	engine := risk.NewEngine(slog.Default())

	worker := NewWorker(eventBus, repo, nil, pipeline, engine)

	t.Run("StartAndStop", func(t *testing.T) {
		cfg := Config{
			TenantIDs: []string{"tenant-001"},
		}

		err := worker.Start(cfg)
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		stats := worker.GetStats()
		if stats.SubscriptionCount != 2 {
			t.Errorf("expected document and screen subscriptions, got %d", stats.SubscriptionCount)
		}

		err = worker.Stop()
		if err != nil {
			t.Errorf("Stop failed: %v", err)
		}

		stats = worker.GetStats()
		if stats.SubscriptionCount != 0 {
			t.Errorf("expected 0 subscriptions after stop, got %d", stats.SubscriptionCount)
		}
	})

	t.Run("ProcessDocument", func(t *testing.T) {
		w := NewWorker(eventBus, repo, nil, pipeline, engine)

		cfg := Config{
			TenantIDs: []string{"tenant-test"},
		}
		w.Start(cfg)
		defer w.Stop()

		ctx := context.Background()

		doc := testDocument("doc-001", "tenant-test")
		if err := repo.SaveDocument(ctx, "tenant-test", doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		// Track completed reports
		var reportReceived atomic.Bool
		var reportPayload []byte

		eventBus.Subscribe(ctx, "tenant-test", domain.TopicReportCompleted, func(ctx context.Context, msg *domain.Message) error {
			reportPayload = msg.Payload
			reportReceived.Store(true)
			return nil
		})

		// Allow subscriptions to be active
		time.Sleep(50 * time.Millisecond)

		docMsg := DocumentMessage{
			DocumentID: "doc-001",
			TenantID:   "tenant-test",
			TraceID:    "trace-001",
		}

		payload, _ := json.Marshal(docMsg)
		err := eventBus.Publish(ctx, "tenant-test", domain.TopicDocumentIngested, payload)
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		// Wait for processing
		time.Sleep(200 * time.Millisecond)

		if !reportReceived.Load() {
			t.Fatal("expected report to be published")
		}

		var report domain.ContractRiskReport
		if err := json.Unmarshal(reportPayload, &report); err != nil {
			t.Fatalf("failed to parse report: %v", err)
		}

		if report.DocumentID != "doc-001" {
			t.Errorf("expected documentID 'doc-001', got '%s'", report.DocumentID)
		}
		if report.TenantID != "tenant-test" {
			t.Errorf("expected tenantID 'tenant-test', got '%s'", report.TenantID)
		}
		if report.TotalClausesAnalyzed != 2 {
			t.Errorf("expected 2 clauses analyzed, got %d", report.TotalClausesAnalyzed)
		}

		// Report is persisted
		saved, err := repo.GetReportByDocument(ctx, "tenant-test", "doc-001")
		if err != nil {
			t.Fatalf("GetReportByDocument failed: %v", err)
		}
		if saved.ID != report.ID {
			t.Errorf("expected saved report %s, got %s", report.ID, saved.ID)
		}

		// Document status moved to completed
		updated, err := repo.GetDocument(ctx, "tenant-test", "doc-001")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if updated.Status != domain.StatusCompleted {
			t.Errorf("expected status completed, got %s", updated.Status)
		}
	})

	t.Run("AlertPublished", func(t *testing.T) {
		// High scores push the overall level into alert territory
		highRiskPipeline := analysis.NewPipeline(&scoringAnalyzer{score: 90}, 5, slog.Default())

		w := NewWorker(eventBus, repo, nil, highRiskPipeline, engine)

		cfg := Config{
			TenantIDs: []string{"tenant-alert"},
		}
		w.Start(cfg)
		defer w.Stop()

		ctx := context.Background()

		doc := testDocument("doc-alert", "tenant-alert")
		if err := repo.SaveDocument(ctx, "tenant-alert", doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		var alertReceived atomic.Bool

		eventBus.Subscribe(ctx, "tenant-alert", domain.TopicReportAlert, func(ctx context.Context, msg *domain.Message) error {
			alertReceived.Store(true)
			return nil
		})

		time.Sleep(50 * time.Millisecond)

		docMsg := DocumentMessage{
			DocumentID: "doc-alert",
			TenantID:   "tenant-alert",
		}

		payload, _ := json.Marshal(docMsg)
		eventBus.Publish(ctx, "tenant-alert", domain.TopicDocumentIngested, payload)

		time.Sleep(200 * time.Millisecond)

		if !alertReceived.Load() {
			t.Error("expected alert to be published for high-risk report")
		}
	})

	t.Run("MultiTenant", func(t *testing.T) {
		w := NewWorker(eventBus, repo, nil, pipeline, engine)

		cfg := Config{
			TenantIDs: []string{"tenant-a", "tenant-b"},
		}
		w.Start(cfg)
		defer w.Stop()

		stats := w.GetStats()
		if stats.SubscriptionCount != 4 {
			t.Errorf("expected 2 subscriptions per tenant, got %d", stats.SubscriptionCount)
		}
	})

	t.Run("ScreenOverBus", func(t *testing.T) {
		w := NewWorker(eventBus, repo, nil, pipeline, engine)

		cfg := Config{
			TenantIDs: []string{"tenant-screen"},
		}
		w.Start(cfg)
		defer w.Stop()

		time.Sleep(50 * time.Millisecond)

		req := ScreenMessage{
			ClauseID:   "cl-screen-1",
			Category:   "liability",
			Text:       "Contractor accepts unlimited liability for all damages arising under this agreement.",
			Confidence: 0.9,
		}
		payload, _ := json.Marshal(req)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		reply, err := eventBus.Request(ctx, "tenant-screen", domain.TopicScreenEvaluate, payload)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}

		var finding domain.ComplianceFinding
		if err := json.Unmarshal(reply, &finding); err != nil {
			t.Fatalf("failed to parse finding: %v", err)
		}
		if finding.ClauseID != "cl-screen-1" {
			t.Errorf("expected clause 'cl-screen-1', got '%s'", finding.ClauseID)
		}
		if finding.RiskScore != 30 {
			t.Errorf("expected analyzer score 30, got %v", finding.RiskScore)
		}
	})
}

func TestDocumentMessageParsing(t *testing.T) {
	msg := DocumentMessage{
		DocumentID: "doc-123",
		TenantID:   "tenant-001",
		TraceID:    "trace-456",
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var parsed DocumentMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if parsed.DocumentID != msg.DocumentID {
		t.Errorf("expected DocumentID '%s', got '%s'", msg.DocumentID, parsed.DocumentID)
	}
	if parsed.TraceID != msg.TraceID {
		t.Errorf("expected TraceID '%s', got '%s'", msg.TraceID, parsed.TraceID)
	}
}
