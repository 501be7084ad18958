package journal

import "github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"

// Validate checks an entry for export readiness and returns one
// user-facing message per problem. An empty slice means the entry is
// exportable.
func Validate(e models.JournalEntry) []string {
	var problems []string

	if e.Date == "" {
		problems = append(problems, "日付が設定されていません")
	}
	if e.DebitAccount == "" {
		problems = append(problems, "借方勘定科目が設定されていません")
	}
	if e.CreditAccount == "" {
		problems = append(problems, "貸方勘定科目が設定されていません")
	}
	if e.DebitAmount <= 0 {
		problems = append(problems, "借方金額が不正です")
	}
	if e.CreditAmount <= 0 {
		problems = append(problems, "貸方金額が不正です")
	}
	if e.DebitAmount > 0 && e.CreditAmount > 0 && e.DebitAmount != e.CreditAmount {
		problems = append(problems, "借方金額と貸方金額が一致しません")
	}

	return problems
}

// ValidateAll validates a batch, keyed by entry index. Only entries
// with problems appear in the result.
func ValidateAll(entries []models.JournalEntry) map[int][]string {
	problems := make(map[int][]string)
	for i, e := range entries {
		if p := Validate(e); len(p) > 0 {
			problems[i] = p
		}
	}
	return problems
}
