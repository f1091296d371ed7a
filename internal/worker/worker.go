// Package worker provides async document processing for the Pro tier.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/opensource-legal/gavel/internal/analysis"
	"github.com/opensource-legal/gavel/internal/domain"
	"github.com/opensource-legal/gavel/internal/risk"
)

// Worker processes documents asynchronously from the EventBus.
type Worker struct {
	bus      domain.EventBus
	repo     domain.Repository
	cache    domain.Cache
	pipeline *analysis.Pipeline
	engine   *risk.Engine

	reportTTL time.Duration

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// Config holds worker configuration.
type Config struct {
	// TenantIDs is the list of tenants to process (empty = all via wildcard if supported)
	TenantIDs []string

	// ReportCacheTTL is how long assembled reports stay cached
	ReportCacheTTL time.Duration
}

// NewWorker creates a new async worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, cache domain.Cache, pipeline *analysis.Pipeline, engine *risk.Engine) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:       bus,
		repo:      repo,
		cache:     cache,
		pipeline:  pipeline,
		engine:    engine,
		reportTTL: 10 * time.Minute,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins processing messages for the given tenants.
func (w *Worker) Start(cfg Config) error {
	if cfg.ReportCacheTTL > 0 {
		w.reportTTL = cfg.ReportCacheTTL
	}

	if len(cfg.TenantIDs) == 0 {
		return w.startGlobalWorker()
	}

	for _, tenantID := range cfg.TenantIDs {
		if err := w.startTenantWorker(tenantID); err != nil {
			slog.Error("failed to start worker for tenant",
				"tenant_id", tenantID,
				"error", err,
			)
			continue
		}
	}

	slog.Info("workers started",
		"tenant_count", len(cfg.TenantIDs),
	)

	return nil
}

// startGlobalWorker starts a worker that processes all tenants (for testing/dev).
func (w *Worker) startGlobalWorker() error {
	// Subscribe using a special "global" tenant ID
	// In production, you'd want to subscribe with wildcards or JetStream
	sub, err := w.bus.Subscribe(w.ctx, "_global", domain.TopicDocumentIngested, w.handleMessage)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	screenSub, err := w.bus.Subscribe(w.ctx, "_global", domain.TopicScreenEvaluate, w.handleScreenRequest)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, screenSub)

	slog.Info("global worker started")
	return nil
}

// startTenantWorker starts workers for a specific tenant.
func (w *Worker) startTenantWorker(tenantID string) error {
	sub, err := w.bus.Subscribe(w.ctx, tenantID, domain.TopicDocumentIngested, func(ctx context.Context, msg *domain.Message) error {
		return w.processDocument(ctx, tenantID, msg)
	})
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	screenSub, err := w.bus.Subscribe(w.ctx, tenantID, domain.TopicScreenEvaluate, w.handleScreenRequest)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, screenSub)

	slog.Info("tenant worker started",
		"tenant_id", tenantID,
		"topic", domain.TopicDocumentIngested,
	)

	return nil
}

// handleMessage handles messages from global subscription.
func (w *Worker) handleMessage(ctx context.Context, msg *domain.Message) error {
	return w.processDocument(ctx, msg.TenantID, msg)
}

// ScreenMessage requests screening of a single clause over the bus.
type ScreenMessage struct {
	ClauseID   string  `json:"clauseId"`
	Category   string  `json:"category"`
	Title      string  `json:"title,omitempty"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// handleScreenRequest screens one clause and sends the finding back. When
// the message carries a reply topic the finding goes there, otherwise it is
// published to the screen result topic.
func (w *Worker) handleScreenRequest(ctx context.Context, msg *domain.Message) error {
	var req ScreenMessage
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		slog.Error("failed to parse screen request",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = 1.0
	}
	clause := &domain.Clause{
		ID:         req.ClauseID,
		Category:   domain.ParseCategory(req.Category),
		Title:      req.Title,
		RawText:    req.Text,
		Confidence: confidence,
	}

	findings := w.pipeline.AnalyzeClauses(ctx, msg.TenantID, []*domain.Clause{clause})
	if len(findings) == 0 {
		return nil
	}

	payload, err := json.Marshal(findings[0])
	if err != nil {
		return err
	}

	replyTopic := msg.Metadata[domain.MetaReplyTo]
	if replyTopic == "" {
		replyTopic = domain.TopicScreenResult
	}
	return w.bus.Publish(ctx, msg.TenantID, replyTopic, payload)
}

// DocumentMessage is the message payload for document analysis.
type DocumentMessage struct {
	DocumentID string `json:"documentId"`
	TenantID   string `json:"tenantId"`
	TraceID    string `json:"traceId"`
}

// processDocument runs a stored document through the analysis pipeline and
// the risk engine, then persists and publishes the resulting report.
func (w *Worker) processDocument(ctx context.Context, tenantID string, msg *domain.Message) error {
	start := time.Now()

	var docMsg DocumentMessage
	if err := json.Unmarshal(msg.Payload, &docMsg); err != nil {
		slog.Error("failed to parse document message",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	// Use message tenant if provided
	if docMsg.TenantID != "" {
		tenantID = docMsg.TenantID
	}

	traceID := docMsg.TraceID
	if traceID == "" {
		traceID = msg.ID
	}

	slog.Debug("processing document",
		"document_id", docMsg.DocumentID,
		"tenant_id", tenantID,
		"trace_id", traceID,
	)

	// 1. Load the document
	doc, err := w.repo.GetDocument(ctx, tenantID, docMsg.DocumentID)
	if err != nil {
		slog.Error("failed to load document",
			"document_id", docMsg.DocumentID,
			"error", err,
		)
		return err
	}

	if err := w.repo.UpdateDocumentStatus(ctx, tenantID, doc.ID, domain.StatusAnalyzing, ""); err != nil {
		slog.Error("failed to mark document analyzing",
			"document_id", doc.ID,
			"error", err,
		)
	}

	// 2. Analyze clauses and assemble the report
	clauses := doc.AnalyzableClauses()
	findings := w.pipeline.AnalyzeClauses(ctx, tenantID, clauses)
	report := w.engine.BuildReport(ctx, tenantID, doc.ID, clauses, findings)

	// 3. Save report
	if err := w.repo.SaveReport(ctx, tenantID, report); err != nil {
		slog.Error("failed to save report",
			"document_id", doc.ID,
			"error", err,
		)
		_ = w.repo.UpdateDocumentStatus(ctx, tenantID, doc.ID, domain.StatusFailed, err.Error())
		return err
	}

	if w.cache != nil {
		if err := w.cache.SetReport(ctx, tenantID, doc.ID, report, w.reportTTL); err != nil {
			slog.Warn("failed to cache report",
				"document_id", doc.ID,
				"error", err,
			)
		}
		if n, err := w.cache.IncrementCounter(ctx, tenantID, "analyses", 24*time.Hour); err == nil {
			slog.Debug("tenant analysis count", "tenant_id", tenantID, "count", n)
		}
	}

	if err := w.repo.UpdateDocumentStatus(ctx, tenantID, doc.ID, domain.StatusCompleted, ""); err != nil {
		slog.Error("failed to mark document completed",
			"document_id", doc.ID,
			"error", err,
		)
	}

	// 4. Publish the completed report
	resultPayload, _ := json.Marshal(report)
	if err := w.bus.Publish(ctx, tenantID, domain.TopicReportCompleted, resultPayload); err != nil {
		slog.Error("failed to publish report",
			"document_id", doc.ID,
			"error", err,
		)
	}

	// 5. Elevated reports also go to the alert topic
	if report.OverallRiskLevel.IsElevated() {
		if err := w.bus.Publish(ctx, tenantID, domain.TopicReportAlert, resultPayload); err != nil {
			slog.Error("failed to publish alert",
				"document_id", doc.ID,
				"error", err,
			)
		}
	}

	slog.Info("document processed",
		"document_id", doc.ID,
		"tenant_id", tenantID,
		"overall_level", report.OverallRiskLevel,
		"overall_score", report.OverallRiskScore,
		"clauses", report.TotalClausesAnalyzed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Stop gracefully stops all workers.
func (w *Worker) Stop() error {
	w.cancel()

	// Unsubscribe all
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	slog.Info("workers stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
