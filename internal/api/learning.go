package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/extraction"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/learning"
)

// handleListCorrections handles GET /api/learning/corrections.
func (s *Server) handleListCorrections(w http.ResponseWriter, r *http.Request) {
	corrections, err := s.learning.List()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list corrections")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"corrections": corrections,
	})
}

// saveCorrectionRequest pairs the extracted record with the accounts
// the user settled on.
type saveCorrectionRequest struct {
	Original   extraction.Record   `json:"original"`
	Correction learning.Correction `json:"correction"`
}

// handleSaveCorrection handles POST /api/learning/corrections.
func (s *Server) handleSaveCorrection(w http.ResponseWriter, r *http.Request) {
	var req saveCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if req.Original.Issuer == "" && req.Original.Description == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Original record has nothing to match on")
		return
	}

	saved, err := s.learning.SaveCorrection(&req.Original, req.Correction)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to save correction")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"correction": saved,
	})
}

// handleDeleteCorrection handles DELETE /api/learning/corrections/{id}.
func (s *Server) handleDeleteCorrection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.learning.Delete(id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to delete correction")
		return
	}
	if !deleted {
		writeJSONError(w, http.StatusNotFound, "not_found", "Correction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearCorrections handles POST /api/learning/corrections/clear.
func (s *Server) handleClearCorrections(w http.ResponseWriter, r *http.Request) {
	if err := s.learning.Clear(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to clear corrections")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
