// Package bank parses bank-statement files (CSV and XLSX) into
// normalized transactions. Each supported bank format is a dialect:
// a header skip count, a minimum column count and a row decoder.
package bank

import (
	"strings"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
)

// Dialect describes one bank's statement layout.
type Dialect struct {
	Name     string
	SkipRows int
	MinCols  int
	// DecodeRow converts one raw row into a transaction. It returns
	// false when the row carries no usable transaction (empty date or
	// both amounts zero).
	DecodeRow func(row []string) (models.Transaction, bool)
}

// DefaultDialect is used when an unknown bank type is requested.
const DefaultDialect = "aichi"

var dialects = map[string]Dialect{
	"aichi": {
		Name:     "aichi",
		SkipRows: 1,
		MinCols:  5,
		// 日付, 摘要, お預り金額, お支払金額, 残高
		DecodeRow: decodeStandardRow,
	},
	"mufg": {
		Name:     "mufg",
		SkipRows: 1,
		MinCols:  6,
		// 日付, お取引内容, お預り金額, お支払金額, 残高, メモ
		DecodeRow: decodeStandardRow,
	},
	"smbc": {
		Name:     "smbc",
		SkipRows: 1,
		MinCols:  6,
		// 年月日, お取引内容, お預り金額, お引出し金額, 残高, メモ
		DecodeRow: decodeStandardRow,
	},
}

// DialectFor returns the dialect for a bank type, falling back to the
// default dialect for unknown types.
func DialectFor(bankType string) Dialect {
	if d, ok := dialects[strings.ToLower(bankType)]; ok {
		return d
	}
	return dialects[DefaultDialect]
}

// DialectNames lists the supported bank types.
func DialectNames() []string {
	return []string{"aichi", "mufg", "smbc"}
}

// decodeStandardRow decodes the date/description/deposit/withdrawal/balance
// layout shared by the supported banks.
func decodeStandardRow(row []string) (models.Transaction, bool) {
	dateStr := strings.TrimSpace(row[0])
	description := strings.TrimSpace(row[1])
	deposit := ParseAmount(row[2])
	withdrawal := ParseAmount(row[3])

	var balance int64
	if len(row) > 4 {
		balance = ParseAmount(row[4])
	}

	if dateStr == "" || (deposit == 0 && withdrawal == 0) {
		return models.Transaction{}, false
	}

	direction := models.DirectionWithdrawal
	if deposit > 0 {
		direction = models.DirectionDeposit
	}

	return models.Transaction{
		Date:        NormalizeDate(dateStr),
		Description: description,
		Deposit:     deposit,
		Withdrawal:  withdrawal,
		Balance:     balance,
		Direction:   direction,
	}, true
}
