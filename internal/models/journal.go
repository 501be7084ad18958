package models

import "time"

// JournalEntry represents a double-entry journal slip (仕訳) ready for
// Yayoi export. Entries are immutable once created; corrections produce
// new entries rather than mutations.
type JournalEntry struct {
	Date   string `json:"date"` // YYYY-MM-DD
	SlipNo int64  `json:"slip_no"`

	// Debit side (借方).
	DebitAccount     string `json:"debit_account"`
	DebitSubAccount  string `json:"debit_sub_account"`
	DebitDepartment  string `json:"debit_department"`
	DebitTaxCategory string `json:"debit_tax_category"`
	DebitAmount      int64  `json:"debit_amount"`
	DebitTaxAmount   int64  `json:"debit_tax_amount"`

	// Credit side (貸方).
	CreditAccount     string `json:"credit_account"`
	CreditSubAccount  string `json:"credit_sub_account"`
	CreditDepartment  string `json:"credit_department"`
	CreditTaxCategory string `json:"credit_tax_category"`
	CreditAmount      int64  `json:"credit_amount"`
	CreditTaxAmount   int64  `json:"credit_tax_amount"`

	Description string    `json:"description"`
	WorkDate    time.Time `json:"work_date"`
	JournalNo   int64     `json:"journal_no"`
}

// TaxExempt is the tax category applied to entry sides that are outside
// the scope of consumption tax (対象外).
const TaxExempt = "対象外"

// ClassifiedEntry is a journal entry derived from a classified bank
// transaction, carrying the classification metadata for review.
type ClassifiedEntry struct {
	JournalEntry
	RuleID      string  `json:"rule_id"`
	RuleName    string  `json:"rule_name"`
	VendorName  string  `json:"vendor_name"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
}
