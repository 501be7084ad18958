// Package db provides SQLite-backed journal history: every created
// entry and every CSV export is recorded for traceability.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Journal entry history
-- Every entry the pipeline creates, whatever its origin.
CREATE TABLE IF NOT EXISTS journal_entries (
    id TEXT PRIMARY KEY,               -- UUID
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    source_file TEXT,                  -- Originating statement or document
    source_type TEXT NOT NULL,         -- bank_import, ocr_batch, ocr_single, manual, sales, purchase, payment
    entry_json TEXT NOT NULL,          -- Full journal entry as JSON
    learning_applied INTEGER NOT NULL DEFAULT 0,
    exported INTEGER NOT NULL DEFAULT 0,
    exported_at TIMESTAMP,
    export_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_exported
    ON journal_entries(exported);

CREATE INDEX IF NOT EXISTS idx_journal_entries_source_type
    ON journal_entries(source_type);

CREATE INDEX IF NOT EXISTS idx_journal_entries_source_file
    ON journal_entries(source_file);

-- CSV export history
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,               -- UUID
    exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    filename TEXT NOT NULL,
    entry_count INTEGER NOT NULL
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
