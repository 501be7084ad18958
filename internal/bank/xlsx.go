package bank

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses an XLSX bank statement using the dialect for the
// given bank type. The first sheet is used; rows flow through the same
// decoder as the CSV path.
func ReadXLSX(r io.Reader, bankType string) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("XLSX has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return Parse(rows, DialectFor(bankType)), nil
}
