package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/bank"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/journal"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/master"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/yayoi"
	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/config"
	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/db"
)

var (
	bankType    string
	outputDir   string
	startSlipNo int64
	legacyCSV   bool
	importDry   bool
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import <statement-file>",
	Short: "Convert a bank statement into a Yayoi journal CSV",
	Long: `Import a bank statement CSV or XLSX file, classify every
transaction, and write a Shift_JIS journal CSV importable by Yayoi.

The entries are recorded in the history database together with the
export, so the same statement can be inspected later with stats.
Low-confidence classifications are reported on stderr for review.

Example:
  yayoi-bridge import statement.csv --bank aichi
  yayoi-bridge import statement.xlsx --bank mufg --out ./output --dry-run`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	// Flags
	importCmd.Flags().StringVar(&bankType, "bank", bank.DefaultDialect,
		fmt.Sprintf("bank statement layout (%s)", strings.Join(bank.DialectNames(), ", ")))
	importCmd.Flags().StringVar(&outputDir, "out", "", "output directory (default from OUTPUT_DIR)")
	importCmd.Flags().Int64Var(&startSlipNo, "start-slip-no", 1, "first slip number in the export")
	importCmd.Flags().BoolVar(&legacyCSV, "legacy", false, "write the legacy desktop layout instead")
	importCmd.Flags().BoolVar(&importDry, "dry-run", false, "classify and report without writing files")
}

func runImport(cmd *cobra.Command, args []string) {
	inputPath := args[0]
	slog.Info("Starting import", "file", inputPath, "bank", bankType, "dry_run", importDry)

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if outputDir == "" {
		outputDir = cfg.Storage.OutputDir
	}

	// Load master data
	m, err := master.Load(cfg.Storage.MasterDataDir)
	exitOnError(err, "failed to load master data")

	// Parse the statement
	f, err := os.Open(inputPath)
	exitOnError(err, "failed to open statement file")
	defer f.Close()

	var result bank.Result
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".xlsx", ".xls":
		result, err = bank.ReadXLSX(f, bankType)
	default:
		result, err = bank.ReadCSV(f, bankType)
	}
	exitOnError(err, "failed to parse statement")
	slog.Info("Parsed statement",
		"transactions", len(result.Transactions),
		"skipped_rows", result.SkippedRows,
	)

	// Classify and build journal entries
	service := journal.NewService(m)
	var (
		entries     []models.JournalEntry
		needsReview int
	)
	for _, tx := range result.Transactions {
		classification := rules.Classify(tx.Description, tx.Direction)
		entry, ok := service.FromTransaction(tx, classification)
		if !ok {
			continue
		}
		if entry.NeedsReview {
			needsReview++
			fmt.Fprintf(os.Stderr, "REVIEW %s %s (%s, confidence %.2f)\n",
				entry.Date, entry.Description, entry.RuleID, entry.Confidence)
		}
		entries = append(entries, entry.JournalEntry)
	}

	if len(entries) == 0 {
		fmt.Println("No transactions to import")
		return
	}

	// Validate before writing anything
	if problems := journal.ValidateAll(entries); len(problems) > 0 {
		for i, errs := range problems {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "entry %d: %s\n", i+1, e)
			}
		}
		exitOnError(fmt.Errorf("%d entries failed validation", len(problems)), "invalid entries")
	}

	// Encode the Yayoi CSV
	var data []byte
	if legacyCSV {
		data, err = yayoi.EncodeLegacyCP932(entries, true)
	} else {
		data, err = yayoi.EncodeCP932(entries, startSlipNo)
	}
	exitOnError(err, "failed to encode CSV")

	filename := yayoi.ExportFilename("yayoi", time.Now())
	outPath := filepath.Join(outputDir, filename)

	if importDry {
		fmt.Printf("[DRY RUN] Would write %d entries to %s\n", len(entries), outPath)
		return
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		exitOnError(err, "failed to create output directory")
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		exitOnError(err, "failed to write CSV")
	}

	// Record entries and the export in history
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.HistoryDBPath), 0o755); err != nil {
		exitOnError(err, "failed to create data directory")
	}
	conn, err := db.Open(cfg.Storage.HistoryDBPath)
	exitOnError(err, "failed to open history database")
	defer conn.Close()

	history := db.NewHistory(conn)
	sourceFiles := make([]string, len(entries))
	for i := range sourceFiles {
		sourceFiles[i] = filepath.Base(inputPath)
	}
	ids, err := history.AddEntriesBatch(entries, sourceFiles, db.SourceBankImport)
	exitOnError(err, "failed to record entries")

	_, err = history.RecordExport(filename, ids)
	exitOnError(err, "failed to record export")

	fmt.Printf("Wrote %d entries to %s\n", len(entries), outPath)
	if needsReview > 0 {
		fmt.Printf("%d entries need review (see stderr)\n", needsReview)
	}

	slog.Info("Import completed",
		"entries", len(entries),
		"needs_review", needsReview,
		"output", outPath,
	)
}
