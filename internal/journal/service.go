// Package journal builds balanced double-entry journal slips from
// classified transactions and manual business events. Which side of an
// entry carries the counterparty sub-account is a property of the
// operation type, driven by the rule table, never inferred from data.
package journal

import (
	"time"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/master"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
)

// PaymentMethod selects the credit side of an expense entry.
type PaymentMethod string

const (
	PayByBank PaymentMethod = "bank"
	PayByCash PaymentMethod = "cash"
	PayUnpaid PaymentMethod = "unpaid"
)

// Service builds journal entries against the master reference tables.
type Service struct {
	master   *master.Master
	counters *Counters
	now      func() time.Time
}

// NewService creates a journal builder with fresh counters.
func NewService(m *master.Master) *Service {
	return &Service{
		master:   m,
		counters: NewCounters(),
		now:      time.Now,
	}
}

// Counters exposes the service's number generators, shared with the
// export path.
func (s *Service) Counters() *Counters {
	return s.counters
}

func (s *Service) newEntry(date string, amount int64, description string) models.JournalEntry {
	return models.JournalEntry{
		Date:         date,
		SlipNo:       s.counters.NextSlipNo(),
		DebitAmount:  amount,
		CreditAmount: amount,
		Description:  description,
		WorkDate:     s.now(),
		JournalNo:    s.counters.NextJournalNo(),
	}
}

// CreateSales books a sale: 売掛金 / 売上高, vendor sub-account on both
// sides. The vendor's sales_tax_type overrides the rule's credit tax
// category when configured.
func (s *Service) CreateSales(date, vendorName string, amount int64, description string, salesType rules.RuleID) models.JournalEntry {
	rule := s.master.RuleOr(salesType, rules.RuleSalesReceivable)
	sub := s.master.VendorSubAccount(vendorName)

	creditTax := rule.CreditTaxCategory
	if v, ok := s.master.Vendor(vendorName); ok && v.SalesTaxType != "" {
		creditTax = v.SalesTaxType
	}

	e := s.newEntry(date, amount, description)
	e.DebitAccount = rule.DebitAccount
	e.DebitSubAccount = sub
	e.DebitTaxCategory = rule.DebitTaxCategory
	e.CreditAccount = rule.CreditAccount
	e.CreditSubAccount = sub
	e.CreditTaxCategory = creditTax
	return e
}

// CreatePaymentReceived books a receivable collection: 普通預金 (bank
// sub-account) / 売掛金 (vendor sub-account).
func (s *Service) CreatePaymentReceived(date, vendorName string, amount int64, description, bankID string) models.JournalEntry {
	rule := s.master.RuleOr(rules.RulePaymentReceived, rules.RulePaymentReceived)

	e := s.newEntry(date, amount, description)
	e.DebitAccount = rule.DebitAccount
	e.DebitSubAccount = s.master.BankSubAccount(bankID)
	e.DebitTaxCategory = rule.DebitTaxCategory
	e.CreditAccount = rule.CreditAccount
	e.CreditSubAccount = s.master.VendorSubAccount(vendorName)
	e.CreditTaxCategory = rule.CreditTaxCategory
	return e
}

// CreatePurchase books a purchase: 仕入高 / 買掛金 (vendor sub-account
// on the credit side).
func (s *Service) CreatePurchase(date, vendorName string, amount int64, description string, purchaseType rules.RuleID) models.JournalEntry {
	rule := s.master.RuleOr(purchaseType, rules.RulePurchase)

	e := s.newEntry(date, amount, description)
	e.DebitAccount = rule.DebitAccount
	e.DebitTaxCategory = rule.DebitTaxCategory
	e.CreditAccount = rule.CreditAccount
	e.CreditSubAccount = s.master.VendorSubAccount(vendorName)
	e.CreditTaxCategory = rule.CreditTaxCategory
	return e
}

// CreatePurchasePayment books a payable settlement: 買掛金 (vendor
// sub-account) / 普通預金 (bank sub-account).
func (s *Service) CreatePurchasePayment(date, vendorName string, amount int64, description, bankID string) models.JournalEntry {
	rule := s.master.RuleOr(rules.RulePurchasePayment, rules.RulePurchasePayment)

	e := s.newEntry(date, amount, description)
	e.DebitAccount = rule.DebitAccount
	e.DebitSubAccount = s.master.VendorSubAccount(vendorName)
	e.DebitTaxCategory = rule.DebitTaxCategory
	e.CreditAccount = rule.CreditAccount
	e.CreditSubAccount = s.master.BankSubAccount(bankID)
	e.CreditTaxCategory = rule.CreditTaxCategory
	return e
}

// CreateExpense books an expense against cash, bank or accounts
// payable depending on the payment method.
func (s *Service) CreateExpense(date string, expenseType rules.RuleID, amount int64, description, vendorName, bankID string, method PaymentMethod) models.JournalEntry {
	rule := s.master.RuleOr(expenseType, rules.RuleMiscellaneous)

	e := s.newEntry(date, amount, description)
	e.DebitAccount = rule.DebitAccount
	e.DebitTaxCategory = rule.DebitTaxCategory
	e.CreditTaxCategory = models.TaxExempt

	switch method {
	case PayByCash:
		e.CreditAccount = "現金"
	case PayUnpaid:
		e.CreditAccount = "未払金"
		e.CreditSubAccount = vendorName
	default:
		e.CreditAccount = "普通預金"
		e.CreditSubAccount = s.master.BankSubAccount(bankID)
	}
	return e
}

// CreateAdvanceReceived transfers advance revenue to sales: 前受収益 /
// 売上高; the vendor's sales_tax_type overrides the credit tax.
func (s *Service) CreateAdvanceReceived(date, vendorName string, amount int64, description string) models.JournalEntry {
	rule := s.master.RuleOr(rules.RuleAdvanceReceivedTransfer, rules.RuleAdvanceReceivedTransfer)

	creditTax := rule.CreditTaxCategory
	if v, ok := s.master.Vendor(vendorName); ok && v.SalesTaxType != "" {
		creditTax = v.SalesTaxType
	}

	e := s.newEntry(date, amount, description)
	e.DebitAccount = rule.DebitAccount
	e.DebitTaxCategory = rule.DebitTaxCategory
	e.CreditAccount = rule.CreditAccount
	e.CreditTaxCategory = creditTax
	return e
}

// CreateTemporaryReceived books an unidentified deposit: 普通預金 (bank
// sub-account) / 仮受金.
func (s *Service) CreateTemporaryReceived(date string, amount int64, description, bankID string) models.JournalEntry {
	rule := s.master.RuleOr(rules.RuleTemporaryReceived, rules.RuleTemporaryReceived)

	e := s.newEntry(date, amount, description)
	e.DebitAccount = rule.DebitAccount
	e.DebitSubAccount = s.master.BankSubAccount(bankID)
	e.DebitTaxCategory = rule.DebitTaxCategory
	e.CreditAccount = rule.CreditAccount
	e.CreditTaxCategory = rule.CreditTaxCategory
	return e
}

// CustomEntry is the explicit account-pair input for CreateCustom.
type CustomEntry struct {
	Date              string
	DebitAccount      string
	DebitSubAccount   string
	DebitTaxCategory  string
	CreditAccount     string
	CreditSubAccount  string
	CreditTaxCategory string
	Amount            int64
	Description       string
}

// CreateCustom builds an entry from an explicit account pair, for
// entries no rule covers.
func (s *Service) CreateCustom(c CustomEntry) models.JournalEntry {
	if c.DebitTaxCategory == "" {
		c.DebitTaxCategory = models.TaxExempt
	}
	if c.CreditTaxCategory == "" {
		c.CreditTaxCategory = models.TaxExempt
	}

	e := s.newEntry(c.Date, c.Amount, c.Description)
	e.DebitAccount = c.DebitAccount
	e.DebitSubAccount = c.DebitSubAccount
	e.DebitTaxCategory = c.DebitTaxCategory
	e.CreditAccount = c.CreditAccount
	e.CreditSubAccount = c.CreditSubAccount
	e.CreditTaxCategory = c.CreditTaxCategory
	return e
}

// FromTransaction builds a classified entry for one bank transaction.
// The classification's vendor goes on the debit sub-account, matching
// the review screen's expectation for statement-driven entries.
// Transactions with a non-positive amount yield ok=false and must be
// skipped by the caller.
func (s *Service) FromTransaction(tx models.Transaction, result rules.Result) (models.ClassifiedEntry, bool) {
	amount := tx.Amount()
	if amount <= 0 {
		return models.ClassifiedEntry{}, false
	}

	rule := s.master.RuleOr(result.RuleID, rules.RuleMiscellaneous)

	entry := s.CreateCustom(CustomEntry{
		Date:              tx.Date,
		DebitAccount:      rule.DebitAccount,
		DebitSubAccount:   result.VendorName,
		DebitTaxCategory:  rule.DebitTaxCategory,
		CreditAccount:     rule.CreditAccount,
		CreditTaxCategory: rule.CreditTaxCategory,
		Amount:            amount,
		Description:       tx.Description,
	})

	return models.ClassifiedEntry{
		JournalEntry: entry,
		RuleID:       string(result.RuleID),
		RuleName:     rule.Name,
		VendorName:   result.VendorName,
		Confidence:   result.Confidence,
		NeedsReview:  result.NeedsReview(),
	}, true
}
