// Package yayoi renders journal entries as Yayoi Kaikei import CSV.
// The import format is 25 columns per row, era-formatted dates and
// CP932 encoding, with no header row.
package yayoi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/journal"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
)

// entryKind is column 1 of the import row. 2000 marks a single-line
// slip (振替伝票ではない通常仕訳).
const entryKind = "2000"

// FormatEraDate converts a YYYY-MM-DD date to Yayoi's Reiwa era form
// R.YY/MM/DD. Dates that do not parse are returned unchanged so the
// import error surfaces in Yayoi rather than silently shifting a date.
func FormatEraDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("R.%02d/%02d/%02d", t.Year()-2018, int(t.Month()), t.Day())
}

// EncodeRow renders one journal entry as the 25-column import row,
// overriding the entry's slip number with slipNo.
func EncodeRow(e models.JournalEntry, slipNo int64) []string {
	return []string{
		entryKind,                                // 識別フラグ
		strconv.FormatInt(slipNo, 10),            // 伝票No
		"",                                       // 決算
		FormatEraDate(e.Date),                    // 取引日付
		e.DebitAccount,                           // 借方勘定科目
		e.DebitSubAccount,                        // 借方補助科目
		e.DebitDepartment,                        // 借方部門
		e.DebitTaxCategory,                       // 借方税区分
		strconv.FormatInt(e.DebitAmount, 10),     // 借方金額
		strconv.FormatInt(e.DebitTaxAmount, 10),  // 借方税金額
		e.CreditAccount,                          // 貸方勘定科目
		e.CreditSubAccount,                       // 貸方補助科目
		e.CreditDepartment,                       // 貸方部門
		e.CreditTaxCategory,                      // 貸方税区分
		strconv.FormatInt(e.CreditAmount, 10),    // 貸方金額
		strconv.FormatInt(e.CreditTaxAmount, 10), // 貸方税金額
		e.Description,                            // 摘要
		"",                                       // 番号
		"",                                       // 期日
		"0",                                      // タイプ
		"",                                       // 生成元
		"",                                       // 仕訳メモ
		"0",                                      // 付箋1
		"0",                                      // 付箋2
		"no",                                     // 調整
	}
}

// Encode renders entries as import CSV text (UTF-8), assigning
// sequential slip numbers from startSlipNo. Entries that fail
// validation abort the export; Yayoi rejects whole files on bad rows,
// so nothing partial is worth producing.
func Encode(entries []models.JournalEntry, startSlipNo int64) (string, error) {
	for i, e := range entries {
		if problems := journal.Validate(e); len(problems) > 0 {
			return "", fmt.Errorf("entry %d is not exportable: %s", i+1, problems[0])
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	for i, e := range entries {
		if err := w.Write(EncodeRow(e, startSlipNo+int64(i))); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.String(), nil
}

// EncodeCP932 renders entries as import CSV bytes in CP932, the
// encoding Yayoi expects on import.
func EncodeCP932(entries []models.JournalEntry, startSlipNo int64) ([]byte, error) {
	text, err := Encode(entries, startSlipNo)
	if err != nil {
		return nil, err
	}
	encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode export as CP932: %w", err)
	}
	return encoded, nil
}
