package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/yayoi"
)

// exportRequest selects what to export. Entries are passed explicitly
// so the client controls order; EntryIDs link the export back to the
// history records being exported.
type exportRequest struct {
	Entries     []models.JournalEntry `json:"entries"`
	EntryIDs    []string              `json:"entry_ids"`
	Format      string                `json:"format"` // standard (default) or legacy
	Filename    string                `json:"filename"`
	StartSlipNo int64                 `json:"start_slip_no"`
}

// handleExportCSV handles POST /api/export/csv. The response body is
// the CP932 CSV itself, served as a download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if len(req.Entries) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "No entries to export")
		return
	}

	startSlipNo := req.StartSlipNo
	if startSlipNo <= 0 {
		startSlipNo = s.journal.Counters().NextSlipNo()
	}

	var (
		data []byte
		err  error
	)
	switch req.Format {
	case "", "standard":
		data, err = yayoi.EncodeCP932(req.Entries, startSlipNo)
	case "legacy":
		data, err = yayoi.EncodeLegacyCP932(req.Entries, true)
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Unknown export format")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid_entries", err.Error())
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = yayoi.ExportFilename("yayoi", time.Now())
	}

	if len(req.EntryIDs) > 0 {
		if _, err := s.history.RecordExport(filename, req.EntryIDs); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to record export")
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=Shift_JIS")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
