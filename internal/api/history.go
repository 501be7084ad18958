package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/db"
)

// handleListHistory handles GET /api/history/entries with optional
// limit, offset, exported and source_type query filters.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := db.EntryFilter{
		SourceType: q.Get("source_type"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid offset")
			return
		}
		filter.Offset = n
	}
	if v := q.Get("exported"); v != "" {
		exported, err := strconv.ParseBool(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid exported flag")
			return
		}
		filter.Exported = &exported
	}

	entries, err := s.history.GetEntries(filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleDeleteHistoryEntry handles DELETE /api/history/entries/{id}.
func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.history.DeleteEntry(id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to delete entry")
		return
	}
	if !deleted {
		writeJSONError(w, http.StatusNotFound, "not_found", "Entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearUnexported handles POST /api/history/entries/clear_unexported.
func (s *Server) handleClearUnexported(w http.ResponseWriter, r *http.Request) {
	removed, err := s.history.ClearUnexported()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to clear entries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}

// handleListExports handles GET /api/history/exports.
func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit")
			return
		}
		limit = n
	}

	exports, err := s.history.GetExports(limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list exports")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exports": exports,
	})
}

// handleHistoryStats handles GET /api/history/stats.
func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.history.GetStats()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
