package bank

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
)

// Result is the outcome of parsing one statement file. SkippedRows
// counts rows dropped for being short, malformed or amount-less, so
// silent data loss stays observable.
type Result struct {
	Transactions []models.Transaction `json:"transactions"`
	SkippedRows  int                  `json:"skipped_rows"`
}

// Parse runs a dialect's row decoder over raw records. Header rows are
// skipped per the dialect; short rows and rows without a usable amount
// are counted, never fatal.
func Parse(records [][]string, dialect Dialect) Result {
	var result Result

	for i, row := range records {
		if i < dialect.SkipRows {
			continue
		}
		if len(row) < dialect.MinCols {
			result.SkippedRows++
			continue
		}

		tx, ok := dialect.DecodeRow(row)
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	return result
}

// ReadCSV parses a CP932-encoded bank CSV stream using the dialect for
// the given bank type.
func ReadCSV(r io.Reader, bankType string) (Result, error) {
	decoded := transform.NewReader(r, japanese.ShiftJIS.NewDecoder())

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1 // bank exports have ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read bank CSV: %w", err)
	}

	return Parse(records, DialectFor(bankType)), nil
}

// amountStripper removes thousands separators, currency symbols and
// whitespace (including full-width) before integer conversion.
var amountStripper = strings.NewReplacer(
	",", "",
	"円", "",
	"¥", "",
	"￥", "",
	" ", "",
	"\t", "",
	"　", "",
)

// ParseAmount converts an amount cell to an integer. Anything
// non-numeric after stripping yields zero, not an error; malformed
// amounts are treated as absent.
func ParseAmount(s string) int64 {
	cleaned := amountStripper.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// dateLayouts are tried in order; non-padded elements also accept
// zero-padded input.
var dateLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"2006年1月2日",
	"2006.1.2",
}

// NormalizeDate converts a statement date string to YYYY-MM-DD.
// Month/day-only input assumes the current calendar year. Unparseable
// dates pass through unchanged as a last resort.
func NormalizeDate(s string) string {
	return normalizeDateAt(s, time.Now())
}

func normalizeDateAt(s string, now time.Time) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// Year-less month/day form.
	if t, err := time.Parse("1/2", s); err == nil {
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}

	return s
}
