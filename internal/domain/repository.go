// Package domain defines the core interfaces and types for Gavel.
package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence.
// All methods require tenantID for strict multi-tenancy isolation.
type Repository interface {
	// Document operations
	SaveDocument(ctx context.Context, tenantID string, doc *Document) error
	GetDocument(ctx context.Context, tenantID string, docID string) (*Document, error)
	ListDocuments(ctx context.Context, tenantID string, since time.Time) ([]*Document, error)
	UpdateDocumentStatus(ctx context.Context, tenantID string, docID string, status AnalysisStatus, errMsg string) error

	// Risk report operations
	SaveReport(ctx context.Context, tenantID string, report *ContractRiskReport) error
	GetReport(ctx context.Context, tenantID string, reportID string) (*ContractRiskReport, error)
	GetReportByDocument(ctx context.Context, tenantID string, docID string) (*ContractRiskReport, error)

	// Screening rule configuration operations
	SaveScreenRule(ctx context.Context, tenantID string, rule *ScreenRuleConfig) error
	GetScreenRule(ctx context.Context, tenantID string, ruleID string) (*ScreenRuleConfig, error)
	ListScreenRules(ctx context.Context, tenantID string) ([]*ScreenRuleConfig, error)
	DeleteScreenRule(ctx context.Context, tenantID string, ruleID string) error

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
