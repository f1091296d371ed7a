// Package analysis orchestrates compliance analysis across a document's
// clauses and hands the findings to the risk engine.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/opensource-legal/gavel/internal/domain"
)

// Analyzer produces a compliance finding for a single clause. The built-in
// implementation is the screening engine; external services plug in behind
// the same interface.
type Analyzer interface {
	Analyze(ctx context.Context, tenantID string, clause *domain.Clause) (*domain.ComplianceFinding, error)
}

// DefaultMaxConcurrency bounds in-flight clause analyses when the config
// does not say otherwise.
const DefaultMaxConcurrency = 5

// Pipeline fans clause analysis out across a bounded worker pool. Findings
// come back in clause order regardless of completion order, and a clause
// whose analysis fails or panics yields an error finding instead of sinking
// the document.
type Pipeline struct {
	analyzer       Analyzer
	maxConcurrency int
	logger         *slog.Logger
}

// NewPipeline creates an analysis pipeline.
func NewPipeline(analyzer Analyzer, maxConcurrency int, logger *slog.Logger) *Pipeline {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &Pipeline{
		analyzer:       analyzer,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// AnalyzeClauses analyzes every clause and returns one finding per clause,
// index-aligned with the input.
func (p *Pipeline) AnalyzeClauses(ctx context.Context, tenantID string, clauses []*domain.Clause) []*domain.ComplianceFinding {
	if len(clauses) == 0 {
		return nil
	}

	findings := make([]*domain.ComplianceFinding, len(clauses))
	var wg sync.WaitGroup

	sem := make(chan struct{}, p.maxConcurrency)

	for i, clause := range clauses {
		wg.Add(1)
		go func(idx int, c *domain.Clause) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			findings[idx] = p.analyzeOne(ctx, tenantID, c)
		}(i, clause)
	}

	wg.Wait()

	return findings
}

// analyzeOne runs a single analysis, converting errors and panics into
// error findings so one bad clause never loses the rest of the document.
func (p *Pipeline) analyzeOne(ctx context.Context, tenantID string, clause *domain.Clause) (finding *domain.ComplianceFinding) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "clause analysis panicked",
				"tenantId", tenantID,
				"clauseId", clause.ID,
				"panic", r)
			finding = domain.ErrorFinding(clause, fmt.Errorf("analysis panic: %v", r))
		}
	}()

	f, err := p.analyzer.Analyze(ctx, tenantID, clause)
	if err != nil {
		p.logger.WarnContext(ctx, "clause analysis failed",
			"tenantId", tenantID,
			"clauseId", clause.ID,
			"error", err)
		return domain.ErrorFinding(clause, err)
	}
	return f
}
