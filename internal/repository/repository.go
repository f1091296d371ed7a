// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/opensource-legal/gavel/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument stores a document with tenant isolation. Saving an existing
// document ID replaces its clauses and status.
func (r *SQLRepository) SaveDocument(ctx context.Context, tenantID string, doc *domain.Document) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	clauses, _ := json.Marshal(doc.Clauses)

	query := `
		INSERT INTO documents (
			id, tenant_id, title, status, clauses, uploaded_at, analyzed_at, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			clauses = excluded.clauses,
			analyzed_at = excluded.analyzed_at,
			error = excluded.error
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		doc.ID, tenantID, doc.Title, doc.Status,
		string(clauses), doc.UploadedAt, doc.AnalyzedAt, doc.Error,
	)
	return err
}

// GetDocument retrieves a document by ID with tenant isolation.
func (r *SQLRepository) GetDocument(ctx context.Context, tenantID string, docID string) (*domain.Document, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, title, status, clauses, uploaded_at, analyzed_at, error
		FROM documents
		WHERE tenant_id = ? AND id = ?
	`

	var doc domain.Document
	var clauses string
	var analyzedAt sql.NullTime
	var errMsg sql.NullString

	err := r.db.QueryRowContext(ctx, r.rebind(query), tenantID, docID).Scan(
		&doc.ID, &doc.TenantID, &doc.Title, &doc.Status,
		&clauses, &doc.UploadedAt, &analyzedAt, &errMsg,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if analyzedAt.Valid {
		t := analyzedAt.Time
		doc.AnalyzedAt = &t
	}
	doc.Error = errMsg.String
	json.Unmarshal([]byte(clauses), &doc.Clauses)

	return &doc, nil
}

// ListDocuments retrieves documents uploaded since a time, newest first.
func (r *SQLRepository) ListDocuments(ctx context.Context, tenantID string, since time.Time) ([]*domain.Document, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, title, status, clauses, uploaded_at, analyzed_at, error
		FROM documents
		WHERE tenant_id = ? AND uploaded_at >= ?
		ORDER BY uploaded_at DESC
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), tenantID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*domain.Document
	for rows.Next() {
		var doc domain.Document
		var clauses string
		var analyzedAt sql.NullTime
		var errMsg sql.NullString

		if err := rows.Scan(
			&doc.ID, &doc.TenantID, &doc.Title, &doc.Status,
			&clauses, &doc.UploadedAt, &analyzedAt, &errMsg,
		); err != nil {
			return nil, err
		}

		if analyzedAt.Valid {
			t := analyzedAt.Time
			doc.AnalyzedAt = &t
		}
		doc.Error = errMsg.String
		json.Unmarshal([]byte(clauses), &doc.Clauses)
		documents = append(documents, &doc)
	}

	return documents, rows.Err()
}

// UpdateDocumentStatus advances a document through the analysis lifecycle.
func (r *SQLRepository) UpdateDocumentStatus(ctx context.Context, tenantID string, docID string, status domain.AnalysisStatus, errMsg string) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		UPDATE documents
		SET status = ?, error = ?, analyzed_at = ?
		WHERE tenant_id = ? AND id = ?
	`

	var analyzedAt any
	if status == domain.StatusCompleted || status == domain.StatusFailed {
		analyzedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, r.rebind(query), status, errMsg, analyzedAt, tenantID, docID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveReport stores a risk report with tenant isolation. The full report is
// stored as JSON; score and level are lifted into columns for filtering.
func (r *SQLRepository) SaveReport(ctx context.Context, tenantID string, report *domain.ContractRiskReport) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	query := `
		INSERT INTO reports (
			id, tenant_id, document_id, analyzed_at, overall_score, overall_level, report
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.rebind(query),
		report.ID, tenantID, report.DocumentID, report.AnalyzedAt,
		report.OverallRiskScore, report.OverallRiskLevel, string(payload),
	)
	return err
}

// GetReport retrieves a report by ID with tenant isolation.
func (r *SQLRepository) GetReport(ctx context.Context, tenantID string, reportID string) (*domain.ContractRiskReport, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT report FROM reports
		WHERE tenant_id = ? AND id = ?
	`

	return r.scanReport(r.db.QueryRowContext(ctx, r.rebind(query), tenantID, reportID))
}

// GetReportByDocument retrieves the latest report for a document.
func (r *SQLRepository) GetReportByDocument(ctx context.Context, tenantID string, docID string) (*domain.ContractRiskReport, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT report FROM reports
		WHERE tenant_id = ? AND document_id = ?
		ORDER BY analyzed_at DESC
		LIMIT 1
	`

	return r.scanReport(r.db.QueryRowContext(ctx, r.rebind(query), tenantID, docID))
}

func (r *SQLRepository) scanReport(row *sql.Row) (*domain.ContractRiskReport, error) {
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var report domain.ContractRiskReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// SaveScreenRule stores a screening rule configuration with tenant isolation.
func (r *SQLRepository) SaveScreenRule(ctx context.Context, tenantID string, rule *domain.ScreenRuleConfig) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	categories, _ := json.Marshal(rule.Categories)
	bands, _ := json.Marshal(rule.Bands)
	regs, _ := json.Marshal(rule.ViolatedRegulations)
	recs, _ := json.Marshal(rule.Recommendations)

	enabled := 0
	if rule.Enabled {
		enabled = 1
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO screen_rules (
			id, tenant_id, name, description, version, categories, expression,
			bands, violated_regulations, recommendations, severity, enabled,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, tenant_id, version) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			categories = excluded.categories,
			expression = excluded.expression,
			bands = excluded.bands,
			violated_regulations = excluded.violated_regulations,
			recommendations = excluded.recommendations,
			severity = excluded.severity,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rule.ID, tenantID, rule.Name, rule.Description, rule.Version,
		string(categories), rule.Expression, string(bands), string(regs),
		string(recs), rule.Severity, enabled,
		now, now,
	)
	return err
}

// GetScreenRule retrieves a screening rule with tenant isolation.
func (r *SQLRepository) GetScreenRule(ctx context.Context, tenantID string, ruleID string) (*domain.ScreenRuleConfig, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, name, description, version, categories, expression,
		       bands, violated_regulations, recommendations, severity, enabled
		FROM screen_rules
		WHERE tenant_id = ? AND id = ? AND enabled = 1
		ORDER BY version DESC
		LIMIT 1
	`

	cfg, err := scanScreenRule(r.db.QueryRowContext(ctx, r.rebind(query), tenantID, ruleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cfg, err
}

// ListScreenRules retrieves all active screening rules for a tenant.
func (r *SQLRepository) ListScreenRules(ctx context.Context, tenantID string) ([]*domain.ScreenRuleConfig, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, name, description, version, categories, expression,
		       bands, violated_regulations, recommendations, severity, enabled
		FROM screen_rules
		WHERE tenant_id = ? AND enabled = 1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*domain.ScreenRuleConfig
	for rows.Next() {
		cfg, err := scanScreenRule(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	return configs, rows.Err()
}

// DeleteScreenRule soft-deletes a screening rule by setting enabled = 0.
func (r *SQLRepository) DeleteScreenRule(ctx context.Context, tenantID string, ruleID string) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		UPDATE screen_rules
		SET enabled = 0, updated_at = ?
		WHERE tenant_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, r.rebind(query), time.Now().UTC(), tenantID, ruleID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanScreenRule(row scanner) (*domain.ScreenRuleConfig, error) {
	var cfg domain.ScreenRuleConfig
	var categories, bands, regs, recs string
	var enabled int

	if err := row.Scan(
		&cfg.ID, &cfg.TenantID, &cfg.Name, &cfg.Description, &cfg.Version,
		&categories, &cfg.Expression, &bands, &regs, &recs,
		&cfg.Severity, &enabled,
	); err != nil {
		return nil, err
	}

	cfg.Enabled = enabled == 1
	json.Unmarshal([]byte(categories), &cfg.Categories)
	json.Unmarshal([]byte(bands), &cfg.Bands)
	json.Unmarshal([]byte(regs), &cfg.ViolatedRegulations)
	json.Unmarshal([]byte(recs), &cfg.Recommendations)

	return &cfg, nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
