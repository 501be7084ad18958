package yayoi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
)

// Legacy export: the 33-column 振替伝票 layout older Yayoi versions
// import, with the two-row header. Kept because some desktop
// installations still reject the 25-column form.

var legacyHeaderRow1 = []string{
	"日付", "伝票No.", "決算", "調整", "付箋１", "付箋2", "タイプ", "生成元",
	"", "", "", "", "借方", "", "", "",
	"", "", "", "", "貸方", "", "", "",
	"", "摘要", "請求書区分", "仕入税額控除", "期日", "番号", "仕訳メモ", "作業日付", "仕訳番号",
}

var legacyHeaderRow2 = []string{
	"", "", "", "", "", "", "", "",
	"", "勘定科目", "補助科目", "部門", "税区分", "税計算区分", "金額", "消費税額",
	"", "勘定科目", "補助科目", "部門", "税区分", "税計算区分", "金額", "消費税額",
	"", "", "", "", "", "", "", "", "",
}

func legacyDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("2006/01/02")
}

func legacyAmount(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func encodeLegacyRow(e models.JournalEntry) []string {
	workDate := ""
	if !e.WorkDate.IsZero() {
		workDate = e.WorkDate.Format("2006/01/02")
	}
	journalNo := ""
	if e.JournalNo != 0 {
		journalNo = strconv.FormatInt(e.JournalNo, 10)
	}
	slipNo := ""
	if e.SlipNo != 0 {
		slipNo = strconv.FormatInt(e.SlipNo, 10)
	}

	return []string{
		legacyDate(e.Date),
		slipNo,
		"", // 決算
		"", // 調整
		"", // 付箋1
		"", // 付箋2
		"", // タイプ
		"", // 生成元
		"",
		e.DebitAccount,
		e.DebitSubAccount,
		e.DebitDepartment,
		e.DebitTaxCategory,
		"", // 税計算区分
		legacyAmount(e.DebitAmount),
		legacyAmount(e.DebitTaxAmount),
		"",
		e.CreditAccount,
		e.CreditSubAccount,
		e.CreditDepartment,
		e.CreditTaxCategory,
		"", // 税計算区分
		legacyAmount(e.CreditAmount),
		legacyAmount(e.CreditTaxAmount),
		"",
		e.Description,
		"", // 請求書区分
		"", // 仕入税額控除
		"", // 期日
		"", // 番号
		"", // 仕訳メモ
		workDate,
		journalNo,
	}
}

// EncodeLegacy renders entries as the 33-column CSV text, optionally
// prefixed by the two header rows.
func EncodeLegacy(entries []models.JournalEntry, includeHeader bool) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if includeHeader {
		if err := w.Write(legacyHeaderRow1); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
		if err := w.Write(legacyHeaderRow2); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}
	for i, e := range entries {
		if err := w.Write(encodeLegacyRow(e)); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.String(), nil
}

// EncodeLegacyCP932 renders the legacy export as CP932 bytes.
func EncodeLegacyCP932(entries []models.JournalEntry, includeHeader bool) ([]byte, error) {
	text, err := EncodeLegacy(entries, includeHeader)
	if err != nil {
		return nil, err
	}
	encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode export as CP932: %w", err)
	}
	return encoded, nil
}

// ExportFilename builds the timestamped default filename for an
// export, e.g. yayoi_20250115_093000.csv.
func ExportFilename(prefix string, at time.Time) string {
	if prefix == "" {
		prefix = "yayoi"
	}
	return strings.Join([]string{prefix, at.Format("20060102_150405")}, "_") + ".csv"
}
