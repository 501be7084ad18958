package api

import (
	"encoding/json"
	"net/http"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/journal"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/db"
)

// entryRequest is the shared request shape for the typed journal
// endpoints. Fields outside a given operation are ignored by it.
type entryRequest struct {
	Date          string `json:"date"`
	VendorName    string `json:"vendor_name"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	BankID        string `json:"bank_id"`
	RuleID        string `json:"rule_id"`
	PaymentMethod string `json:"payment_method"`
}

func decodeEntryRequest(w http.ResponseWriter, r *http.Request) (entryRequest, bool) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return req, false
	}
	if req.Date == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing date")
		return req, false
	}
	if req.Amount <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Amount must be positive")
		return req, false
	}
	return req, true
}

// respondEntry records the entry in history and returns it.
func (s *Server) respondEntry(w http.ResponseWriter, entry models.JournalEntry, sourceType string) {
	if problems := journal.Validate(entry); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"entry":  entry,
			"errors": problems,
		})
		return
	}

	id, err := s.history.AddEntry(entry, "", sourceType, false)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to record entry")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    id,
		"entry": entry,
	})
}

// handleCreateSales handles POST /api/journals/sales.
func (s *Server) handleCreateSales(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry := s.journal.CreateSales(req.Date, req.VendorName, req.Amount, req.Description, rules.RuleID(req.RuleID))
	s.respondEntry(w, entry, db.SourceSales)
}

// handleCreatePayment handles POST /api/journals/payment.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry := s.journal.CreatePaymentReceived(req.Date, req.VendorName, req.Amount, req.Description, req.BankID)
	s.respondEntry(w, entry, db.SourcePayment)
}

// handleCreatePurchase handles POST /api/journals/purchase.
func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry := s.journal.CreatePurchase(req.Date, req.VendorName, req.Amount, req.Description, rules.RuleID(req.RuleID))
	s.respondEntry(w, entry, db.SourcePurchase)
}

// handleCreatePurchasePayment handles POST /api/journals/purchase_payment.
func (s *Server) handleCreatePurchasePayment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry := s.journal.CreatePurchasePayment(req.Date, req.VendorName, req.Amount, req.Description, req.BankID)
	s.respondEntry(w, entry, db.SourcePayment)
}

// handleCreateExpense handles POST /api/journals/expense.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry := s.journal.CreateExpense(req.Date, rules.RuleID(req.RuleID), req.Amount,
		req.Description, req.VendorName, req.BankID, journal.PaymentMethod(req.PaymentMethod))
	s.respondEntry(w, entry, db.SourceManual)
}

// handleCreateAdvanceReceived handles POST /api/journals/advance_received.
func (s *Server) handleCreateAdvanceReceived(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry := s.journal.CreateAdvanceReceived(req.Date, req.VendorName, req.Amount, req.Description)
	s.respondEntry(w, entry, db.SourceSales)
}

// handleCreateTemporaryReceived handles POST /api/journals/temporary_received.
func (s *Server) handleCreateTemporaryReceived(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}
	entry := s.journal.CreateTemporaryReceived(req.Date, req.Amount, req.Description, req.BankID)
	s.respondEntry(w, entry, db.SourceManual)
}

// customEntryRequest is the explicit account pair for POST
// /api/journals/custom.
type customEntryRequest struct {
	Date              string `json:"date"`
	DebitAccount      string `json:"debit_account"`
	DebitSubAccount   string `json:"debit_sub_account"`
	DebitTaxCategory  string `json:"debit_tax_category"`
	CreditAccount     string `json:"credit_account"`
	CreditSubAccount  string `json:"credit_sub_account"`
	CreditTaxCategory string `json:"credit_tax_category"`
	Amount            int64  `json:"amount"`
	Description       string `json:"description"`
	SourceFile        string `json:"source_file"`
	SourceType        string `json:"source_type"`
}

// handleCreateCustom handles POST /api/journals/custom. This is also
// the confirmation path for reviewed bank and document entries, which
// carry their source metadata.
func (s *Server) handleCreateCustom(w http.ResponseWriter, r *http.Request) {
	var req customEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	entry := s.journal.CreateCustom(journal.CustomEntry{
		Date:              req.Date,
		DebitAccount:      req.DebitAccount,
		DebitSubAccount:   req.DebitSubAccount,
		DebitTaxCategory:  req.DebitTaxCategory,
		CreditAccount:     req.CreditAccount,
		CreditSubAccount:  req.CreditSubAccount,
		CreditTaxCategory: req.CreditTaxCategory,
		Amount:            req.Amount,
		Description:       req.Description,
	})

	if problems := journal.Validate(entry); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"entry":  entry,
			"errors": problems,
		})
		return
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = db.SourceManual
	}
	id, err := s.history.AddEntry(entry, req.SourceFile, sourceType, false)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to record entry")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    id,
		"entry": entry,
	})
}

// handleValidate handles POST /api/journals/validate: dry-run
// validation of client-built entries before export.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var entries []models.JournalEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	problems := journal.ValidateAll(entries)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  len(problems) == 0,
		"errors": problems,
	})
}
