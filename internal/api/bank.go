package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/bank"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
)

const maxUploadBytes = 32 << 20

// handleBankImport handles POST /api/bank/import. It accepts one CSV
// or XLSX statement as multipart field "file", classifies every
// transaction and returns the proposed entries for review. Nothing is
// persisted here; the client confirms entries through the journal and
// export endpoints.
func (s *Server) handleBankImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing file")
		return
	}
	defer file.Close()

	bankType := r.FormValue("bank_type")

	var result bank.Result
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xls":
		result, err = bank.ReadXLSX(file, bankType)
	default:
		result, err = bank.ReadCSV(file, bankType)
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse bank statement")
		return
	}

	var entries []models.ClassifiedEntry
	for _, tx := range result.Transactions {
		classification := rules.Classify(tx.Description, tx.Direction)
		entry, ok := s.journal.FromTransaction(tx, classification)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	needsReview := 0
	for _, e := range entries {
		if e.NeedsReview {
			needsReview++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":      entries,
		"count":        len(entries),
		"needs_review": needsReview,
		"skipped_rows": result.SkippedRows,
		"source_file":  header.Filename,
	})
}
