package journal

import (
	"sync"
	"testing"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/master"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	m, err := master.Load(t.TempDir())
	if err != nil {
		t.Fatalf("failed to load master data: %v", err)
	}
	if err := m.AddVendor(master.Vendor{
		ID: "sokuta", Name: "ソクタ", SubAccount: "（株）ソクタ", Type: "client",
	}); err != nil {
		t.Fatalf("failed to add vendor: %v", err)
	}
	if err := m.AddVendor(master.Vendor{
		ID: "kurumi", Name: "株式会社ＫＵＲＵＭＩ", SubAccount: "ＫＵＲＵＭＩ",
		Type: "client", SalesTaxType: "課税売上10%",
	}); err != nil {
		t.Fatalf("failed to add vendor: %v", err)
	}
	return NewService(m)
}

func TestCreateSales(t *testing.T) {
	s := newTestService(t)

	e := s.CreateSales("2025-04-30", "ソクタ", 550000, "4月分売上", rules.RuleSalesReceivable)

	if e.DebitAccount != "売掛金" || e.CreditAccount != "売上高" {
		t.Errorf("accounts = %s/%s, want 売掛金/売上高", e.DebitAccount, e.CreditAccount)
	}
	if e.DebitSubAccount != "（株）ソクタ" || e.CreditSubAccount != "（株）ソクタ" {
		t.Errorf("sub accounts = %q/%q, want vendor sub on both sides",
			e.DebitSubAccount, e.CreditSubAccount)
	}
	if e.DebitAmount != 550000 || e.CreditAmount != 550000 {
		t.Errorf("amounts = %d/%d, want 550000 on both sides", e.DebitAmount, e.CreditAmount)
	}
	if e.DebitTaxCategory != models.TaxExempt {
		t.Errorf("DebitTaxCategory = %q, want %q", e.DebitTaxCategory, models.TaxExempt)
	}
	if e.CreditTaxCategory != "簡売五10%" {
		t.Errorf("CreditTaxCategory = %q, want 簡売五10%%", e.CreditTaxCategory)
	}
	if e.SlipNo != 1 {
		t.Errorf("SlipNo = %d, want 1", e.SlipNo)
	}
}

func TestCreateSalesVendorTaxOverride(t *testing.T) {
	s := newTestService(t)

	e := s.CreateSales("2025-04-30", "株式会社ＫＵＲＵＭＩ", 100000, "", rules.RuleSalesReceivable)
	if e.CreditTaxCategory != "課税売上10%" {
		t.Errorf("CreditTaxCategory = %q, want vendor override 課税売上10%%", e.CreditTaxCategory)
	}
}

func TestCreateSalesUnknownVendorUsesRawName(t *testing.T) {
	s := newTestService(t)

	e := s.CreateSales("2025-04-30", "未登録商店", 10000, "", rules.RuleSalesReceivable)
	if e.DebitSubAccount != "未登録商店" {
		t.Errorf("DebitSubAccount = %q, want raw vendor name", e.DebitSubAccount)
	}
}

func TestCreatePaymentReceived(t *testing.T) {
	s := newTestService(t)

	e := s.CreatePaymentReceived("2025-05-10", "ソクタ", 550000, "4月分入金", "")

	if e.DebitAccount != "普通預金" || e.CreditAccount != "売掛金" {
		t.Errorf("accounts = %s/%s, want 普通預金/売掛金", e.DebitAccount, e.CreditAccount)
	}
	if e.DebitSubAccount != "愛知銀行春日井" {
		t.Errorf("DebitSubAccount = %q, want default bank sub", e.DebitSubAccount)
	}
	if e.CreditSubAccount != "（株）ソクタ" {
		t.Errorf("CreditSubAccount = %q, want vendor sub", e.CreditSubAccount)
	}
}

func TestCreatePurchase(t *testing.T) {
	s := newTestService(t)

	e := s.CreatePurchase("2025-05-01", "ソクタ", 220000, "資材仕入", rules.RulePurchase)

	if e.DebitAccount != "仕入高" || e.CreditAccount != "買掛金" {
		t.Errorf("accounts = %s/%s, want 仕入高/買掛金", e.DebitAccount, e.CreditAccount)
	}
	if e.DebitSubAccount != "" {
		t.Errorf("DebitSubAccount = %q, want empty", e.DebitSubAccount)
	}
	if e.CreditSubAccount != "（株）ソクタ" {
		t.Errorf("CreditSubAccount = %q, want vendor sub", e.CreditSubAccount)
	}
	if e.DebitTaxCategory != "課対仕入10%" {
		t.Errorf("DebitTaxCategory = %q, want 課対仕入10%%", e.DebitTaxCategory)
	}
}

func TestCreatePurchasePayment(t *testing.T) {
	s := newTestService(t)

	e := s.CreatePurchasePayment("2025-05-31", "ソクタ", 220000, "買掛金支払", "mufg_nagoya")

	if e.DebitAccount != "買掛金" || e.CreditAccount != "普通預金" {
		t.Errorf("accounts = %s/%s, want 買掛金/普通預金", e.DebitAccount, e.CreditAccount)
	}
	if e.DebitSubAccount != "（株）ソクタ" {
		t.Errorf("DebitSubAccount = %q, want vendor sub", e.DebitSubAccount)
	}
	if e.CreditSubAccount != "三菱UFJ名古屋" {
		t.Errorf("CreditSubAccount = %q, want selected bank sub", e.CreditSubAccount)
	}
}

func TestCreateExpensePaymentMethods(t *testing.T) {
	tests := []struct {
		name          string
		method        PaymentMethod
		wantCredit    string
		wantCreditSub string
	}{
		{"bank", PayByBank, "普通預金", "愛知銀行春日井"},
		{"cash", PayByCash, "現金", ""},
		{"unpaid", PayUnpaid, "未払金", "文具商店"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			e := s.CreateExpense("2025-05-15", rules.RuleConsumablesPayment,
				3300, "事務用品", "文具商店", "", tt.method)

			if e.DebitAccount != "消耗品費" {
				t.Errorf("DebitAccount = %q, want 消耗品費", e.DebitAccount)
			}
			if e.CreditAccount != tt.wantCredit {
				t.Errorf("CreditAccount = %q, want %q", e.CreditAccount, tt.wantCredit)
			}
			if e.CreditSubAccount != tt.wantCreditSub {
				t.Errorf("CreditSubAccount = %q, want %q", e.CreditSubAccount, tt.wantCreditSub)
			}
			if e.CreditTaxCategory != models.TaxExempt {
				t.Errorf("CreditTaxCategory = %q, want %q", e.CreditTaxCategory, models.TaxExempt)
			}
		})
	}
}

func TestCreateAdvanceReceived(t *testing.T) {
	s := newTestService(t)

	e := s.CreateAdvanceReceived("2025-05-31", "株式会社ＫＵＲＵＭＩ", 100000, "前受金振替")

	if e.DebitAccount != "前受収益" || e.CreditAccount != "売上高" {
		t.Errorf("accounts = %s/%s, want 前受収益/売上高", e.DebitAccount, e.CreditAccount)
	}
	if e.DebitSubAccount != "" || e.CreditSubAccount != "" {
		t.Errorf("sub accounts = %q/%q, want both empty", e.DebitSubAccount, e.CreditSubAccount)
	}
	if e.CreditTaxCategory != "課税売上10%" {
		t.Errorf("CreditTaxCategory = %q, want vendor override", e.CreditTaxCategory)
	}
}

func TestCreateTemporaryReceived(t *testing.T) {
	s := newTestService(t)

	e := s.CreateTemporaryReceived("2025-05-20", 77777, "不明入金", "")

	if e.DebitAccount != "普通預金" || e.CreditAccount != "仮受金" {
		t.Errorf("accounts = %s/%s, want 普通預金/仮受金", e.DebitAccount, e.CreditAccount)
	}
	if e.DebitSubAccount != "愛知銀行春日井" {
		t.Errorf("DebitSubAccount = %q, want default bank sub", e.DebitSubAccount)
	}
	if e.CreditSubAccount != "" {
		t.Errorf("CreditSubAccount = %q, want empty", e.CreditSubAccount)
	}
}

func TestCreateCustomDefaultsTaxCategories(t *testing.T) {
	s := newTestService(t)

	e := s.CreateCustom(CustomEntry{
		Date:          "2025-06-01",
		DebitAccount:  "諸口",
		CreditAccount: "普通預金",
		Amount:        1000,
	})
	if e.DebitTaxCategory != models.TaxExempt || e.CreditTaxCategory != models.TaxExempt {
		t.Errorf("tax categories = %q/%q, want %q on both sides",
			e.DebitTaxCategory, e.CreditTaxCategory, models.TaxExempt)
	}
}

func TestFromTransaction(t *testing.T) {
	s := newTestService(t)

	tx := models.Transaction{
		Date:        "2025-05-10",
		Description: "振込 ソクタ",
		Deposit:     550000,
		Direction:   models.DirectionDeposit,
	}
	result := rules.Result{
		RuleID:     rules.RuleReceivableCollection,
		VendorName: "ソクタ",
		Confidence: 0.85,
	}

	entry, ok := s.FromTransaction(tx, result)
	if !ok {
		t.Fatal("FromTransaction returned ok=false for a positive amount")
	}
	if entry.DebitAccount != "普通預金" || entry.CreditAccount != "売掛金" {
		t.Errorf("accounts = %s/%s, want 普通預金/売掛金", entry.DebitAccount, entry.CreditAccount)
	}
	if entry.DebitSubAccount != "ソクタ" {
		t.Errorf("DebitSubAccount = %q, want classified vendor name", entry.DebitSubAccount)
	}
	if entry.CreditSubAccount != "" {
		t.Errorf("CreditSubAccount = %q, want empty", entry.CreditSubAccount)
	}
	if entry.DebitAmount != 550000 {
		t.Errorf("DebitAmount = %d, want 550000", entry.DebitAmount)
	}
	if entry.RuleID != string(rules.RuleReceivableCollection) {
		t.Errorf("RuleID = %q, want receivable_collection", entry.RuleID)
	}
	if entry.NeedsReview {
		t.Error("NeedsReview = true for confidence 0.85")
	}
}

func TestFromTransactionSkipsZeroAmount(t *testing.T) {
	s := newTestService(t)

	tx := models.Transaction{Date: "2025-05-10", Description: "メモ行"}
	if _, ok := s.FromTransaction(tx, rules.Result{RuleID: rules.RuleMiscellaneous}); ok {
		t.Error("FromTransaction accepted a zero-amount transaction")
	}
}

func TestFromTransactionUnknownRuleFallsBack(t *testing.T) {
	s := newTestService(t)

	tx := models.Transaction{
		Date:        "2025-05-10",
		Description: "不明な出金",
		Withdrawal:  500,
		Direction:   models.DirectionWithdrawal,
	}
	entry, ok := s.FromTransaction(tx, rules.Result{RuleID: "no_such_rule", Confidence: 0.5})
	if !ok {
		t.Fatal("FromTransaction returned ok=false")
	}
	if entry.DebitAccount != "雑費" {
		t.Errorf("DebitAccount = %q, want 雑費 fallback", entry.DebitAccount)
	}
	if !entry.NeedsReview {
		t.Error("NeedsReview = false for confidence 0.5")
	}
}

func TestSlipNumbersAreSequential(t *testing.T) {
	s := newTestService(t)

	for want := int64(1); want <= 3; want++ {
		e := s.CreateTemporaryReceived("2025-05-20", 100, "", "")
		if e.SlipNo != want {
			t.Errorf("SlipNo = %d, want %d", e.SlipNo, want)
		}
	}
}

func TestCountersConcurrent(t *testing.T) {
	c := NewCounters()
	const n = 100

	var wg sync.WaitGroup
	seen := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.NextSlipNo()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool, n)
	for no := range seen {
		if unique[no] {
			t.Fatalf("slip number %d issued twice", no)
		}
		unique[no] = true
	}
	if len(unique) != n {
		t.Errorf("issued %d unique numbers, want %d", len(unique), n)
	}
}

func TestValidate(t *testing.T) {
	valid := models.JournalEntry{
		Date:          "2025-05-10",
		DebitAccount:  "普通預金",
		CreditAccount: "売掛金",
		DebitAmount:   1000,
		CreditAmount:  1000,
	}
	if problems := Validate(valid); len(problems) != 0 {
		t.Errorf("Validate(valid entry) = %v, want no problems", problems)
	}

	tests := []struct {
		name   string
		mutate func(*models.JournalEntry)
		want   string
	}{
		{"missing date", func(e *models.JournalEntry) { e.Date = "" }, "日付が設定されていません"},
		{"missing debit account", func(e *models.JournalEntry) { e.DebitAccount = "" }, "借方勘定科目が設定されていません"},
		{"missing credit account", func(e *models.JournalEntry) { e.CreditAccount = "" }, "貸方勘定科目が設定されていません"},
		{"zero debit amount", func(e *models.JournalEntry) { e.DebitAmount = 0 }, "借方金額が不正です"},
		{"negative credit amount", func(e *models.JournalEntry) { e.CreditAmount = -1 }, "貸方金額が不正です"},
		{"unbalanced", func(e *models.JournalEntry) { e.CreditAmount = 999 }, "借方金額と貸方金額が一致しません"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			problems := Validate(e)
			found := false
			for _, p := range problems {
				if p == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want to contain %q", problems, tt.want)
			}
		})
	}
}

func TestValidateAll(t *testing.T) {
	entries := []models.JournalEntry{
		{Date: "2025-05-10", DebitAccount: "a", CreditAccount: "b", DebitAmount: 1, CreditAmount: 1},
		{Date: "", DebitAccount: "a", CreditAccount: "b", DebitAmount: 1, CreditAmount: 1},
	}
	problems := ValidateAll(entries)
	if len(problems) != 1 {
		t.Fatalf("got problems for %d entries, want 1", len(problems))
	}
	if _, ok := problems[1]; !ok {
		t.Error("expected problems keyed by index 1")
	}
}
