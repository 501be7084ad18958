package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
)

// Source types recorded on history entries.
const (
	SourceBankImport = "bank_import"
	SourceOCRBatch   = "ocr_batch"
	SourceOCRSingle  = "ocr_single"
	SourceManual     = "manual"
	SourceSales      = "sales"
	SourcePurchase   = "purchase"
	SourcePayment    = "payment"
)

// HistoryEntry is one recorded journal entry with its provenance and
// export state.
type HistoryEntry struct {
	ID              string              `json:"id"`
	CreatedAt       time.Time           `json:"created_at"`
	SourceFile      string              `json:"source_file,omitempty"`
	SourceType      string              `json:"source_type"`
	Entry           models.JournalEntry `json:"entry"`
	LearningApplied bool                `json:"learning_applied"`
	Exported        bool                `json:"exported"`
	ExportedAt      *time.Time          `json:"exported_at,omitempty"`
	ExportID        string              `json:"export_id,omitempty"`
}

// ExportRecord is one CSV export event.
type ExportRecord struct {
	ID         string    `json:"id"`
	ExportedAt time.Time `json:"exported_at"`
	Filename   string    `json:"filename"`
	EntryCount int       `json:"entry_count"`
}

// EntryFilter narrows GetEntries. A nil Exported matches both states.
type EntryFilter struct {
	Limit      int
	Offset     int
	Exported   *bool
	SourceType string
}

// History manages the journal entry and export history tables.
type History struct {
	conn *Connection
}

// NewHistory creates a History over an open connection.
func NewHistory(conn *Connection) *History {
	return &History{conn: conn}
}

// AddEntry records one journal entry and returns its generated id.
func (h *History) AddEntry(entry models.JournalEntry, sourceFile, sourceType string, learningApplied bool) (string, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entry: %w", err)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO journal_entries (id, source_file, source_type, entry_json, learning_applied)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := h.conn.Exec(query, id, nullIfEmpty(sourceFile), sourceType, string(payload), learningApplied); err != nil {
		return "", fmt.Errorf("failed to record entry: %w", err)
	}
	return id, nil
}

// AddEntriesBatch records entries in one transaction and returns their
// ids in input order. sourceFiles may be shorter than entries; missing
// positions record no source file.
func (h *History) AddEntriesBatch(entries []models.JournalEntry, sourceFiles []string, sourceType string) ([]string, error) {
	ids := make([]string, len(entries))

	err := h.conn.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO journal_entries (id, source_file, source_type, entry_json, learning_applied)
			VALUES (?, ?, ?, ?, 0)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, entry := range entries {
			payload, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("failed to marshal entry %d: %w", i, err)
			}
			var sourceFile string
			if i < len(sourceFiles) {
				sourceFile = sourceFiles[i]
			}
			ids[i] = uuid.NewString()
			if _, err := stmt.Exec(ids[i], nullIfEmpty(sourceFile), sourceType, string(payload)); err != nil {
				return fmt.Errorf("failed to record entry %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// RecordExport records a CSV export and marks the exported entries,
// returning the export id.
func (h *History) RecordExport(filename string, entryIDs []string) (string, error) {
	exportID := uuid.NewString()
	exportedAt := time.Now().UTC()

	err := h.conn.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO exports (id, exported_at, filename, entry_count)
			VALUES (?, ?, ?, ?)
		`, exportID, exportedAt, filename, len(entryIDs)); err != nil {
			return fmt.Errorf("failed to record export: %w", err)
		}

		stmt, err := tx.Prepare(`
			UPDATE journal_entries
			SET exported = 1, exported_at = ?, export_id = ?
			WHERE id = ?
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare update: %w", err)
		}
		defer stmt.Close()

		for _, id := range entryIDs {
			if _, err := stmt.Exec(exportedAt, exportID, id); err != nil {
				return fmt.Errorf("failed to mark entry %s exported: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return exportID, nil
}

// GetEntries returns history entries matching the filter, newest first.
func (h *History) GetEntries(filter EntryFilter) ([]HistoryEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	query := `
		SELECT id, created_at, source_file, source_type, entry_json,
		       learning_applied, exported, exported_at, export_id
		FROM journal_entries
		WHERE 1 = 1
	`
	var args []interface{}
	if filter.Exported != nil {
		query += " AND exported = ?"
		args = append(args, *filter.Exported)
	}
	if filter.SourceType != "" {
		query += " AND source_type = ?"
		args = append(args, filter.SourceType)
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := h.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetEntry retrieves one history entry by id; nil when not found.
func (h *History) GetEntry(id string) (*HistoryEntry, error) {
	rows, err := h.conn.Query(`
		SELECT id, created_at, source_file, source_type, entry_json,
		       learning_applied, exported, exported_at, export_id
		FROM journal_entries
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// GetEntriesBySourceFile returns all entries created from a given
// source file.
func (h *History) GetEntriesBySourceFile(sourceFile string) ([]HistoryEntry, error) {
	rows, err := h.conn.Query(`
		SELECT id, created_at, source_file, source_type, entry_json,
		       learning_applied, exported, exported_at, export_id
		FROM journal_entries
		WHERE source_file = ?
		ORDER BY created_at DESC, id
	`, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries by source file: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetExports returns export records, newest first.
func (h *History) GetExports(limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.conn.Query(`
		SELECT id, exported_at, filename, entry_count
		FROM exports
		ORDER BY exported_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get exports: %w", err)
	}
	defer rows.Close()

	var exports []ExportRecord
	for rows.Next() {
		var e ExportRecord
		if err := rows.Scan(&e.ID, &e.ExportedAt, &e.Filename, &e.EntryCount); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

// GetExport retrieves one export record with the ids of its entries;
// nil when not found.
func (h *History) GetExport(id string) (*ExportRecord, []string, error) {
	var e ExportRecord
	err := h.conn.QueryRow(`
		SELECT id, exported_at, filename, entry_count
		FROM exports
		WHERE id = ?
	`, id).Scan(&e.ID, &e.ExportedAt, &e.Filename, &e.EntryCount)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get export: %w", err)
	}

	rows, err := h.conn.Query(`SELECT id FROM journal_entries WHERE export_id = ?`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get export entries: %w", err)
	}
	defer rows.Close()

	var entryIDs []string
	for rows.Next() {
		var entryID string
		if err := rows.Scan(&entryID); err != nil {
			return nil, nil, fmt.Errorf("failed to scan export entry id: %w", err)
		}
		entryIDs = append(entryIDs, entryID)
	}
	return &e, entryIDs, rows.Err()
}

// HistoryStats summarizes the history tables.
type HistoryStats struct {
	TotalEntries      int            `json:"total_entries"`
	ExportedEntries   int            `json:"exported_entries"`
	UnexportedEntries int            `json:"unexported_entries"`
	TotalExports      int            `json:"total_exports"`
	BySourceType      map[string]int `json:"entries_by_source_type"`
}

// GetStats computes the history statistics.
func (h *History) GetStats() (*HistoryStats, error) {
	stats := &HistoryStats{BySourceType: make(map[string]int)}

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM journal_entries`).Scan(&stats.TotalEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	err = h.conn.QueryRow(`SELECT COUNT(*) FROM journal_entries WHERE exported = 1`).Scan(&stats.ExportedEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to count exported entries: %w", err)
	}
	stats.UnexportedEntries = stats.TotalEntries - stats.ExportedEntries

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM exports`).Scan(&stats.TotalExports)
	if err != nil {
		return nil, fmt.Errorf("failed to count exports: %w", err)
	}

	rows, err := h.conn.Query(`SELECT source_type, COUNT(*) FROM journal_entries GROUP BY source_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by source type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sourceType string
		var count int
		if err := rows.Scan(&sourceType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source type count: %w", err)
		}
		stats.BySourceType[sourceType] = count
	}
	return stats, rows.Err()
}

// DeleteEntry removes a history entry. Returns false when the id does
// not exist.
func (h *History) DeleteEntry(id string) (bool, error) {
	result, err := h.conn.Exec(`DELETE FROM journal_entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ClearUnexported deletes all entries that have never been exported
// and returns the number removed.
func (h *History) ClearUnexported() (int64, error) {
	result, err := h.conn.Exec(`DELETE FROM journal_entries WHERE exported = 0`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear unexported entries: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func scanEntries(rows *sql.Rows) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	for rows.Next() {
		var (
			e          HistoryEntry
			sourceFile sql.NullString
			payload    string
			exportedAt sql.NullTime
			exportID   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.CreatedAt, &sourceFile, &e.SourceType, &payload,
			&e.LearningApplied, &e.Exported, &exportedAt, &exportID); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry %s: %w", e.ID, err)
		}
		e.SourceFile = sourceFile.String
		if exportedAt.Valid {
			t := exportedAt.Time
			e.ExportedAt = &t
		}
		e.ExportID = exportID.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
