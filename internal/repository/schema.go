package repository

// Schema definitions for the Gavel database.
// Compatible with both SQLite and PostgreSQL.

const schemaDocuments = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    clauses TEXT NOT NULL,
    uploaded_at TIMESTAMP NOT NULL,
    analyzed_at TIMESTAMP,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_tenant ON documents(tenant_id);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(tenant_id, status);
CREATE INDEX IF NOT EXISTS idx_documents_uploaded ON documents(tenant_id, uploaded_at);
`

const schemaReports = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    document_id TEXT NOT NULL,
    analyzed_at TIMESTAMP NOT NULL,
    overall_score REAL NOT NULL,
    overall_level TEXT NOT NULL,
    report TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_tenant ON reports(tenant_id);
CREATE INDEX IF NOT EXISTS idx_reports_document ON reports(tenant_id, document_id);
CREATE INDEX IF NOT EXISTS idx_reports_analyzed ON reports(tenant_id, analyzed_at);
`

const schemaScreenRules = `
CREATE TABLE IF NOT EXISTS screen_rules (
    id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    version TEXT NOT NULL,
    categories TEXT NOT NULL,
    expression TEXT NOT NULL,
    bands TEXT NOT NULL,
    violated_regulations TEXT NOT NULL,
    recommendations TEXT NOT NULL,
    severity REAL NOT NULL DEFAULT 50,
    enabled INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, tenant_id, version)
);

CREATE INDEX IF NOT EXISTS idx_screen_rules_tenant ON screen_rules(tenant_id);
CREATE INDEX IF NOT EXISTS idx_screen_rules_enabled ON screen_rules(tenant_id, enabled);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaDocuments,
		schemaReports,
		schemaScreenRules,
	}
}
