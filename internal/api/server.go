// Package api exposes the journal pipeline over HTTP: bank statement
// import, document extraction, manual entry construction, Yayoi CSV
// export, master data maintenance, history and learning.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/extraction"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/journal"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/learning"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/master"
	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/db"
)

// Server wires the pipeline services into HTTP handlers.
type Server struct {
	master           *master.Master
	journal          *journal.Service
	history          *db.History
	learning         *learning.Store
	extractor        extraction.Extractor
	batchConcurrency int
}

// Config collects the Server dependencies. Extractor may be nil when
// no vision API key is configured; document endpoints then return 503.
type Config struct {
	Master           *master.Master
	Journal          *journal.Service
	History          *db.History
	Learning         *learning.Store
	Extractor        extraction.Extractor
	BatchConcurrency int
}

// NewServer creates a Server.
func NewServer(cfg Config) *Server {
	concurrency := cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = extraction.DefaultConcurrency
	}
	return &Server{
		master:           cfg.Master,
		journal:          cfg.Journal,
		history:          cfg.History,
		learning:         cfg.Learning,
		extractor:        cfg.Extractor,
		batchConcurrency: concurrency,
	}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		// Bank statement import.
		r.Post("/bank/import", s.handleBankImport)

		// Manual journal entries.
		r.Route("/journals", func(r chi.Router) {
			r.Post("/sales", s.handleCreateSales)
			r.Post("/payment", s.handleCreatePayment)
			r.Post("/purchase", s.handleCreatePurchase)
			r.Post("/purchase_payment", s.handleCreatePurchasePayment)
			r.Post("/expense", s.handleCreateExpense)
			r.Post("/advance_received", s.handleCreateAdvanceReceived)
			r.Post("/temporary_received", s.handleCreateTemporaryReceived)
			r.Post("/custom", s.handleCreateCustom)
			r.Post("/validate", s.handleValidate)
		})

		// Document extraction.
		r.Route("/documents", func(r chi.Router) {
			r.Post("/extract", s.handleExtractDocument)
			r.Post("/batch", s.handleExtractBatch)
		})

		// Yayoi CSV export.
		r.Post("/export/csv", s.handleExportCSV)

		// Master data.
		r.Route("/masters", func(r chi.Router) {
			r.Get("/rules", s.handleListRules)
			r.Get("/sub_accounts", s.handleListSubAccounts)
			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", s.handleListVendors)
				r.Post("/", s.handleAddVendor)
				r.Delete("/{id}", s.handleDeleteVendor)
			})
			r.Route("/banks", func(r chi.Router) {
				r.Get("/", s.handleListBanks)
				r.Post("/", s.handleAddBank)
				r.Put("/default", s.handleSetDefaultBank)
			})
		})

		// History.
		r.Route("/history", func(r chi.Router) {
			r.Get("/entries", s.handleListHistory)
			r.Delete("/entries/{id}", s.handleDeleteHistoryEntry)
			r.Post("/entries/clear_unexported", s.handleClearUnexported)
			r.Get("/exports", s.handleListExports)
			r.Get("/stats", s.handleHistoryStats)
		})

		// Learning.
		r.Route("/learning", func(r chi.Router) {
			r.Get("/corrections", s.handleListCorrections)
			r.Post("/corrections", s.handleSaveCorrection)
			r.Delete("/corrections/{id}", s.handleDeleteCorrection)
			r.Post("/corrections/clear", s.handleClearCorrections)
		})
	})

	// Health check endpoint.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
