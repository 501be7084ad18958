// Package extraction turns scanned documents (invoices, expense
// reports, payment notices) into structured records via a vision
// model, then normalizes them into journal-ready suggestions.
package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
)

// Document types a scan can resolve to.
const (
	DocInvoice     = "invoice"
	DocExpense     = "expense_report"
	DocCelebration = "celebration_application"
	DocPaymentNote = "payment_notice"
	DocOther       = "other"
)

// Invoice direction relative to the company group.
const (
	InvoiceSales    = "sales"
	InvoicePurchase = "purchase"
)

// Item is one invoice line.
type Item struct {
	Name      string      `json:"name"`
	Quantity  json.Number `json:"quantity,omitempty"`
	UnitPrice json.Number `json:"unit_price,omitempty"`
	Amount    json.Number `json:"amount,omitempty"`
}

// Record is a structured document extraction with journal suggestions.
// Numeric fields arrive as json.Number because the model sometimes
// quotes amounts.
type Record struct {
	DocumentType   string      `json:"document_type"`
	Issuer         string      `json:"issuer"`
	Recipient      string      `json:"recipient"`
	InvoiceNo      string      `json:"invoice_no,omitempty"`
	Date           string      `json:"date"`
	DueDate        string      `json:"due_date,omitempty"`
	Subtotal       json.Number `json:"subtotal,omitempty"`
	TaxAmount      json.Number `json:"tax_amount,omitempty"`
	TotalAmount    json.Number `json:"total_amount,omitempty"`
	Items          []Item      `json:"items,omitempty"`
	RegistrationNo string      `json:"registration_no,omitempty"`
	Description    string      `json:"description"`
	PageNumber     int         `json:"page_number,omitempty"`
	SourceFile     string      `json:"source_file,omitempty"`

	// Expense report extras.
	EmployeeName string `json:"employee_name,omitempty"`
	Department   string `json:"department,omitempty"`
	Destination  string `json:"destination,omitempty"`

	// Celebration application extras.
	ApplicantName   string `json:"applicant_name,omitempty"`
	ApplicationType string `json:"application_type,omitempty"`

	// Derived suggestions.
	InvoiceType      string       `json:"invoice_type"`
	SuggestedAccount rules.RuleID `json:"suggested_account"`

	// Learning overrides, set when a saved correction matched.
	SuggestedDebitAccount      string `json:"suggested_debit_account,omitempty"`
	SuggestedDebitSubAccount   string `json:"suggested_debit_sub_account,omitempty"`
	SuggestedDebitTaxCategory  string `json:"suggested_debit_tax_category,omitempty"`
	SuggestedCreditAccount     string `json:"suggested_credit_account,omitempty"`
	SuggestedCreditSubAccount  string `json:"suggested_credit_sub_account,omitempty"`
	SuggestedCreditTaxCategory string `json:"suggested_credit_tax_category,omitempty"`
	LearningApplied            bool   `json:"learning_applied"`
	LearningCount              int    `json:"learning_count,omitempty"`
}

// Amount returns the record's billable total in yen; zero when the
// model gave nothing usable.
func (r *Record) Amount() int64 {
	if n, err := r.TotalAmount.Int64(); err == nil {
		return n
	}
	if f, err := r.TotalAmount.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

type accountKeywords struct {
	ruleID   rules.RuleID
	keywords []string
}

// accountSuggestions maps document wording to invoice rule categories.
// Scanned in order; first keyword hit wins.
var accountSuggestions = []accountKeywords{
	{rules.RuleLandRent, []string{"賃料", "家賃", "地代", "共益費", "管理費"}},
	{rules.RuleRent, []string{"リース", "PCリース", "レンタル"}},
	{rules.RuleOutsourcingExpense, []string{"業務支援", "業務委託", "外注", "人件費", "派遣"}},
	{rules.RuleTravelExpense, []string{"出張", "精算", "旅費", "交通費", "新幹線", "宿泊"}},
	{rules.RuleWelfareExpense, []string{"慶祝金", "弔慰金", "見舞金", "祝金"}},
	{rules.RuleMiscellaneous, []string{"廃棄物", "清掃", "処理費"}},
	{rules.RuleUtilities, []string{"電気", "水道", "光熱", "ガス"}},
	{rules.RuleAdvertising, []string{"パンフレット", "印刷", "広告", "看板", "チラシ", "ポスター"}},
	{rules.RuleConsumables, []string{"備品", "消耗品", "文具", "事務用品"}},
	{rules.RuleSalesReceivable, []string{"経営指導料", "指導料", "コンサルティング"}},
}

// DetermineInvoiceType classifies the billing direction: an issuer
// inside the company group means we billed them (sales), a group
// recipient means they billed us (purchase). Unrecognized parties
// default to purchase, the side that receives invoices.
func DetermineInvoiceType(issuer, recipient string) string {
	if rules.IsGroupCompany(issuer) {
		return InvoiceSales
	}
	if rules.IsGroupCompany(recipient) {
		return InvoicePurchase
	}
	return InvoicePurchase
}

// SuggestAccount picks a rule category from the document wording.
func SuggestAccount(r *Record) rules.RuleID {
	switch r.DocumentType {
	case DocExpense:
		return rules.RuleTravelExpense
	case DocCelebration:
		return rules.RuleWelfareExpense
	}

	var sb strings.Builder
	sb.WriteString(r.Description)
	for _, item := range r.Items {
		sb.WriteByte(' ')
		sb.WriteString(item.Name)
	}
	sb.WriteByte(' ')
	sb.WriteString(r.Issuer)
	searchText := sb.String()

	for _, s := range accountSuggestions {
		for _, keyword := range s.keywords {
			if strings.Contains(searchText, keyword) {
				return s.ruleID
			}
		}
	}

	if r.InvoiceType == InvoiceSales {
		return rules.RuleSalesReceivable
	}
	return rules.RulePurchase
}

// Normalize fills derived and missing fields after extraction: billing
// direction, suggested account, a dated description, and today's date
// when the document had none.
func (r *Record) Normalize(now time.Time) {
	if r.DocumentType == "" {
		r.DocumentType = DocInvoice
	}
	if r.InvoiceType == "" {
		r.InvoiceType = DetermineInvoiceType(r.Issuer, r.Recipient)
	}
	if r.SuggestedAccount == "" {
		r.SuggestedAccount = SuggestAccount(r)
	}
	if r.Date == "" {
		r.Date = now.Format("2006-01-02")
	}
	if r.Description == "" {
		r.Description = defaultDescription(r, now)
	}
}

// defaultDescription builds a 摘要 like "ソクタ 5月分" from the
// counterparty and the billing month.
func defaultDescription(r *Record, now time.Time) string {
	party := r.Issuer
	if r.InvoiceType == InvoiceSales {
		party = r.Recipient
	}

	month := now.Month()
	if t, err := time.Parse("2006-01-02", r.Date); err == nil {
		month = t.Month()
	}

	if party == "" {
		return fmt.Sprintf("%d月分", int(month))
	}
	return fmt.Sprintf("%s %d月分", party, int(month))
}
