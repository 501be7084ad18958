package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/config"
	"github.com/shunichi-ikebuchi/yayoi-bridge/pkg/db"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display entry history statistics",
	Long: `Display statistics about recorded journal entries and exports.

Shows:
- Total number of recorded entries
- Exported and unexported entry counts
- Entry counts per source type
- Recent exports

Example:
  yayoi-bridge stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Open database connection
	slog.Debug("Opening database", "path", cfg.Storage.HistoryDBPath)
	conn, err := db.Open(cfg.Storage.HistoryDBPath)
	exitOnError(err, "failed to open history database")
	defer conn.Close()

	history := db.NewHistory(conn)

	// Get statistics
	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	// Display statistics
	fmt.Println("\n=== Entry Statistics ===")
	fmt.Printf("Total entries:      %d\n", stats.TotalEntries)
	fmt.Printf("Exported entries:   %d\n", stats.ExportedEntries)
	fmt.Printf("Unexported entries: %d\n", stats.UnexportedEntries)
	fmt.Printf("Total exports:      %d\n", stats.TotalExports)

	if len(stats.BySourceType) > 0 {
		fmt.Println("\nEntries by source:")
		for source, count := range stats.BySourceType {
			fmt.Printf("  %-12s %d\n", source, count)
		}
	}

	// Recent exports
	exports, err := history.GetExports(5)
	if err == nil && len(exports) > 0 {
		fmt.Println("\nRecent exports:")
		for _, e := range exports {
			fmt.Printf("  %s  %s (%d entries)\n",
				e.ExportedAt.Format("2006-01-02 15:04"), e.Filename, e.EntryCount)
		}
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
