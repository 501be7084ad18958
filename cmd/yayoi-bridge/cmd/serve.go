package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/api"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/extraction"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/journal"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/learning"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/master"
	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/config"
	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/db"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server exposing bank import, document
extraction, journal construction, Yayoi CSV export, master data,
history and learning endpoints.

Example:
  yayoi-bridge serve
  PORT=9000 yayoi-bridge serve`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Setup structured JSON logging for the server.
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Load master data
	m, err := master.Load(cfg.Storage.MasterDataDir)
	exitOnError(err, "failed to load master data")
	slog.Info("master data loaded", "dir", cfg.Storage.MasterDataDir)

	// Open history database
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.HistoryDBPath), 0o755); err != nil {
		exitOnError(err, "failed to create data directory")
	}
	conn, err := db.Open(cfg.Storage.HistoryDBPath)
	exitOnError(err, "failed to open history database")
	defer conn.Close()
	history := db.NewHistory(conn)
	slog.Info("history database opened", "path", cfg.Storage.HistoryDBPath)

	// Open learning store
	store, err := learning.Open(cfg.Storage.LearningDB)
	exitOnError(err, "failed to open learning store")
	defer store.Close()

	// Document extraction is optional; without an API key the
	// document endpoints respond 503.
	var extractor extraction.Extractor
	if cfg.Vision.APIKey != "" {
		extractor = extraction.NewClient(extraction.ClientConfig{
			BaseURL: cfg.Vision.BaseURL,
			APIKey:  cfg.Vision.APIKey,
			Model:   cfg.Vision.Model,
		})
		slog.Info("document extraction enabled")
	} else {
		slog.Warn("VISION_API_KEY not set, document extraction disabled")
	}

	server := api.NewServer(api.Config{
		Master:           m,
		Journal:          journal.NewService(m),
		History:          history,
		Learning:         store,
		Extractor:        extractor,
		BatchConcurrency: cfg.Vision.BatchConcurrency,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting yayoi-bridge server", "addr", addr, "port", cfg.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		if err := httpServer.Close(); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
