package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/master"
)

// handleListRules handles GET /api/masters/rules.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rules": s.master.Rules(),
	})
}

// handleListSubAccounts handles GET /api/masters/sub_accounts.
func (s *Server) handleListSubAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sub_accounts": s.master.SubAccounts(),
	})
}

// handleListVendors handles GET /api/masters/vendors with an optional
// type filter (client or supplier).
func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors := s.master.Vendors(r.URL.Query().Get("type"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vendors": vendors,
	})
}

// handleAddVendor handles POST /api/masters/vendors.
func (s *Server) handleAddVendor(w http.ResponseWriter, r *http.Request) {
	var vendor master.Vendor
	if err := json.NewDecoder(r.Body).Decode(&vendor); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if vendor.ID == "" || vendor.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing id or name")
		return
	}

	if err := s.master.AddVendor(vendor); err != nil {
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"vendor": vendor,
	})
}

// handleDeleteVendor handles DELETE /api/masters/vendors/{id}.
func (s *Server) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.master.DeleteVendor(id); err != nil {
		writeJSONError(w, http.StatusNotFound, "not_found", "Vendor not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListBanks handles GET /api/masters/banks.
func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"banks":        s.master.Banks(),
		"default_bank": s.master.DefaultBankID(),
	})
}

// handleAddBank handles POST /api/masters/banks.
func (s *Server) handleAddBank(w http.ResponseWriter, r *http.Request) {
	var bank master.Bank
	if err := json.NewDecoder(r.Body).Decode(&bank); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if bank.ID == "" || bank.SubAccount == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing id or sub_account")
		return
	}

	if err := s.master.AddBank(bank); err != nil {
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"bank": bank,
	})
}

// handleSetDefaultBank handles PUT /api/masters/banks/default.
func (s *Server) handleSetDefaultBank(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	if err := s.master.SetDefaultBank(req.ID); err != nil {
		writeJSONError(w, http.StatusNotFound, "not_found", "Bank not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default_bank": req.ID,
	})
}
