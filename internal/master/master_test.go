package master

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
)

func TestLoadEmptyDirectoryUsesDefaults(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(m.Rules()) == 0 {
		t.Fatal("default rules not loaded")
	}
	r, ok := m.Rule(rules.RuleReceivableCollection)
	if !ok {
		t.Fatal("receivable_collection rule missing from defaults")
	}
	if r.DebitAccount != "普通預金" || r.CreditAccount != "売掛金" {
		t.Errorf("accounts = %s/%s, want 普通預金/売掛金", r.DebitAccount, r.CreditAccount)
	}

	if m.DefaultBankID() != "aichi_kasugai" {
		t.Errorf("default bank = %q, want aichi_kasugai", m.DefaultBankID())
	}
	if len(m.Vendors("")) != 0 {
		t.Error("vendor list should start empty")
	}
}

func TestLoadCustomRulesFile(t *testing.T) {
	dir := t.TempDir()
	content := `rules:
  - id: receivable_collection
    name: custom
    debit_account: テスト借方
    debit_tax_category: 対象外
    credit_account: テスト貸方
    credit_tax_category: 対象外
`
	if err := os.WriteFile(filepath.Join(dir, "journal_rules.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r, ok := m.Rule(rules.RuleReceivableCollection)
	if !ok {
		t.Fatal("rule not loaded from file")
	}
	if r.DebitAccount != "テスト借方" {
		t.Errorf("DebitAccount = %q, want テスト借方", r.DebitAccount)
	}
	if len(m.Rules()) != 1 {
		t.Errorf("got %d rules, want 1 (file replaces defaults)", len(m.Rules()))
	}
}

func TestRuleOrFallsBack(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r := m.RuleOr("no_such_rule", rules.RuleMiscellaneous)
	if r.ID != rules.RuleMiscellaneous {
		t.Errorf("fallback rule = %q, want %q", r.ID, rules.RuleMiscellaneous)
	}
}

func TestVendorLifecycle(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	v := Vendor{ID: "sokuta", Name: "ソクタ", SubAccount: "（株）ソクタ", Type: "client"}
	if err := m.AddVendor(v); err != nil {
		t.Fatalf("AddVendor: %v", err)
	}
	if err := m.AddVendor(v); err == nil {
		t.Error("duplicate vendor id was accepted")
	}

	if got := m.VendorSubAccount("ソクタ"); got != "（株）ソクタ" {
		t.Errorf("VendorSubAccount = %q, want （株）ソクタ", got)
	}
	// Unknown vendors fall back to the raw name.
	if got := m.VendorSubAccount("不明な取引先"); got != "不明な取引先" {
		t.Errorf("VendorSubAccount fallback = %q", got)
	}

	found, ok := m.FindVendorByPartialName("ソク")
	if !ok || found.ID != "sokuta" {
		t.Errorf("FindVendorByPartialName = %+v, %v", found, ok)
	}

	// Edits persist; a reload sees the same vendor.
	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.Vendor("ソクタ"); !ok {
		t.Error("vendor not persisted to vendors.yaml")
	}

	if err := m.DeleteVendor("sokuta"); err != nil {
		t.Fatalf("DeleteVendor: %v", err)
	}
	if err := m.DeleteVendor("sokuta"); err == nil {
		t.Error("deleting a missing vendor should fail")
	}
	if _, ok := m.Vendor("ソクタ"); ok {
		t.Error("vendor still resolvable after delete")
	}
}

func TestVendorsTypeFilter(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.AddVendor(Vendor{ID: "c1", Name: "得意先", SubAccount: "得意先", Type: "client"})
	m.AddVendor(Vendor{ID: "s1", Name: "仕入先", SubAccount: "仕入先", Type: "supplier"})

	if got := len(m.Vendors("client")); got != 1 {
		t.Errorf("client vendors = %d, want 1", got)
	}
	if got := len(m.Vendors("")); got != 2 {
		t.Errorf("all vendors = %d, want 2", got)
	}
}

func TestBankResolution(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Empty id resolves to the default bank.
	if got := m.BankSubAccount(""); got != "愛知銀行春日井" {
		t.Errorf("default BankSubAccount = %q, want 愛知銀行春日井", got)
	}
	if got := m.BankSubAccount("mufg_nagoya"); got != "三菱UFJ名古屋" {
		t.Errorf("BankSubAccount(mufg_nagoya) = %q", got)
	}
	if got := m.BankSubAccount("no_such_bank"); got != "" {
		t.Errorf("unknown bank sub-account = %q, want empty", got)
	}

	if err := m.AddBank(Bank{ID: "ogaki", Name: "大垣共立銀行", SubAccount: "大垣共立"}); err != nil {
		t.Fatalf("AddBank: %v", err)
	}
	if err := m.AddBank(Bank{ID: "ogaki", SubAccount: "重複"}); err == nil {
		t.Error("duplicate bank id was accepted")
	}

	if err := m.SetDefaultBank("ogaki"); err != nil {
		t.Fatalf("SetDefaultBank: %v", err)
	}
	if err := m.SetDefaultBank("no_such_bank"); err == nil {
		t.Error("setting an unknown default bank should fail")
	}

	// The new default survives a reload.
	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.DefaultBankID() != "ogaki" {
		t.Errorf("reloaded default = %q, want ogaki", reloaded.DefaultBankID())
	}
	if got := reloaded.BankSubAccount(""); got != "大垣共立" {
		t.Errorf("reloaded default sub-account = %q, want 大垣共立", got)
	}
}

func TestSubAccounts(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.AddVendor(Vendor{ID: "c1", Name: "ソクタ", SubAccount: "（株）ソクタ", Type: "client"})
	m.AddVendor(Vendor{ID: "s1", Name: "仕入先", SubAccount: "仕入先商会", Type: "supplier"})

	subs := m.SubAccounts()

	if got := subs["売掛金"]; len(got) != 1 || got[0] != "（株）ソクタ" {
		t.Errorf("売掛金 subs = %v", got)
	}
	if got := subs["買掛金"]; len(got) != 1 || got[0] != "仕入先商会" {
		t.Errorf("買掛金 subs = %v", got)
	}
	if got := subs["普通預金"]; len(got) != 3 {
		t.Errorf("普通預金 subs = %v, want the three default banks", got)
	}
}

func TestSuggestRule(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.AddVendor(Vendor{ID: "lease", Name: "中部リース", SubAccount: "中部リース", DefaultRule: "lease_payment"})

	tests := []struct {
		name        string
		vendor      string
		description string
		want        rules.RuleID
		wantOK      bool
	}{
		{"vendor default rule wins", "中部リース", "なんでも", "lease_payment", true},
		{"keyword outsourcing", "", "1月分外注費", rules.RuleOutsourcingExpense, true},
		{"keyword rent", "", "事務所家賃", rules.RuleLandRent, true},
		{"keyword travel", "", "交通費精算", rules.RuleTravelExpense, true},
		{"no match", "", "その他", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.SuggestRule(tt.vendor, tt.description)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("SuggestRule() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
