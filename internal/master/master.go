// Package master manages the reference tables the pipeline consumes:
// the accounting rule registry, the vendor master and the bank master.
// Tables are loaded once at startup from YAML files (built-in defaults
// cover missing files); vendor and bank edits persist back to YAML.
package master

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
)

// Rule maps a rule category to its debit/credit accounts and tax
// categories. Rules are immutable reference data.
type Rule struct {
	ID                rules.RuleID `yaml:"id" json:"id"`
	Name              string       `yaml:"name" json:"name"`
	DebitAccount      string       `yaml:"debit_account" json:"debit_account"`
	DebitTaxCategory  string       `yaml:"debit_tax_category" json:"debit_tax_category"`
	CreditAccount     string       `yaml:"credit_account" json:"credit_account"`
	CreditTaxCategory string       `yaml:"credit_tax_category" json:"credit_tax_category"`
}

// Vendor is one counterparty record.
type Vendor struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	SubAccount   string `yaml:"sub_account" json:"sub_account"`
	Type         string `yaml:"type,omitempty" json:"type,omitempty"` // client or supplier
	SalesTaxType string `yaml:"sales_tax_type,omitempty" json:"sales_tax_type,omitempty"`
	DefaultRule  string `yaml:"default_rule,omitempty" json:"default_rule,omitempty"`
}

// Bank is one bank-account record; SubAccount is the 普通預金 sub-account
// label used on journal entries.
type Bank struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	SubAccount string `yaml:"sub_account" json:"sub_account"`
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

type vendorsFile struct {
	Vendors []Vendor `yaml:"vendors"`
}

type banksFile struct {
	Banks       []Bank `yaml:"banks"`
	DefaultBank string `yaml:"default_bank"`
}

// Master holds all reference tables with O(1) lookups.
type Master struct {
	mu sync.RWMutex

	dir string

	ruleList []Rule
	ruleByID map[rules.RuleID]Rule

	vendors      []Vendor
	vendorByName map[string]Vendor

	banks       []Bank
	bankByID    map[string]Bank
	defaultBank string
}

// Load reads the master data directory. Missing files fall back to the
// built-in defaults; a missing directory is not an error.
func Load(dir string) (*Master, error) {
	m := &Master{dir: dir}

	var rf rulesFile
	ok, err := readYAML(filepath.Join(dir, "journal_rules.yaml"), &rf)
	if err != nil {
		return nil, err
	}
	if ok && len(rf.Rules) > 0 {
		m.ruleList = rf.Rules
	} else {
		m.ruleList = defaultRules()
	}

	var vf vendorsFile
	if _, err := readYAML(filepath.Join(dir, "vendors.yaml"), &vf); err != nil {
		return nil, err
	}
	m.vendors = vf.Vendors

	var bf banksFile
	ok, err = readYAML(filepath.Join(dir, "banks.yaml"), &bf)
	if err != nil {
		return nil, err
	}
	if ok && len(bf.Banks) > 0 {
		m.banks = bf.Banks
		m.defaultBank = bf.DefaultBank
	} else {
		m.banks = defaultBanks()
		m.defaultBank = defaultBankID
	}
	if m.defaultBank == "" {
		m.defaultBank = defaultBankID
	}

	m.reindex()
	return m, nil
}

func (m *Master) reindex() {
	m.ruleByID = make(map[rules.RuleID]Rule, len(m.ruleList))
	for _, r := range m.ruleList {
		m.ruleByID[r.ID] = r
	}
	m.vendorByName = make(map[string]Vendor, len(m.vendors))
	for _, v := range m.vendors {
		m.vendorByName[v.Name] = v
	}
	m.bankByID = make(map[string]Bank, len(m.banks))
	for _, b := range m.banks {
		m.bankByID[b.ID] = b
	}
}

// Rule looks up a rule by id.
func (m *Master) Rule(id rules.RuleID) (Rule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.ruleByID[id]
	return r, ok
}

// RuleOr looks up a rule by id, falling back to the given default id
// when the first is unknown.
func (m *Master) RuleOr(id, fallback rules.RuleID) Rule {
	if r, ok := m.Rule(id); ok {
		return r
	}
	r, _ := m.Rule(fallback)
	return r
}

// Rules returns the full rule list.
func (m *Master) Rules() []Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Rule, len(m.ruleList))
	copy(out, m.ruleList)
	return out
}

// Vendor looks up a vendor by exact name.
func (m *Master) Vendor(name string) (Vendor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vendorByName[name]
	return v, ok
}

// VendorSubAccount returns the vendor's sub-account label; an unknown
// vendor falls back to its raw name.
func (m *Master) VendorSubAccount(name string) string {
	if v, ok := m.Vendor(name); ok && v.SubAccount != "" {
		return v.SubAccount
	}
	return name
}

// Vendors lists vendors, optionally filtered by type.
func (m *Master) Vendors(vendorType string) []Vendor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Vendor
	for _, v := range m.vendors {
		if vendorType == "" || v.Type == vendorType {
			out = append(out, v)
		}
	}
	return out
}

// FindVendorByPartialName searches vendors by substring of name or
// sub-account.
func (m *Master) FindVendorByPartialName(partial string) (Vendor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.vendors {
		if strings.Contains(v.Name, partial) || strings.Contains(v.SubAccount, partial) {
			return v, true
		}
	}
	return Vendor{}, false
}

// AddVendor appends a vendor and persists the vendor file. Duplicate
// ids are rejected.
func (m *Master) AddVendor(v Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.vendors {
		if existing.ID == v.ID {
			return fmt.Errorf("vendor %s already exists", v.ID)
		}
	}
	m.vendors = append(m.vendors, v)
	m.vendorByName[v.Name] = v
	return m.saveVendorsLocked()
}

// DeleteVendor removes a vendor by id and persists the vendor file.
func (m *Master) DeleteVendor(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.vendors {
		if v.ID == id {
			m.vendors = append(m.vendors[:i], m.vendors[i+1:]...)
			delete(m.vendorByName, v.Name)
			return m.saveVendorsLocked()
		}
	}
	return fmt.Errorf("vendor %s not found", id)
}

// Bank looks up a bank by id; empty id resolves to the default bank.
func (m *Master) Bank(id string) (Bank, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id == "" {
		id = m.defaultBank
	}
	b, ok := m.bankByID[id]
	return b, ok
}

// BankSubAccount returns the sub-account label for a bank id; unknown
// ids yield an empty label, never an error.
func (m *Master) BankSubAccount(id string) string {
	if b, ok := m.Bank(id); ok {
		return b.SubAccount
	}
	return ""
}

// Banks lists all bank records.
func (m *Master) Banks() []Bank {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Bank, len(m.banks))
	copy(out, m.banks)
	return out
}

// DefaultBankID returns the designated default bank id.
func (m *Master) DefaultBankID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultBank
}

// SetDefaultBank designates an existing bank as the default and
// persists the bank file.
func (m *Master) SetDefaultBank(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bankByID[id]; !ok {
		return fmt.Errorf("bank %s not found", id)
	}
	m.defaultBank = id
	return m.saveBanksLocked()
}

// AddBank appends a bank record and persists the bank file.
func (m *Master) AddBank(b Bank) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bankByID[b.ID]; ok {
		return fmt.Errorf("bank %s already exists", b.ID)
	}
	m.banks = append(m.banks, b)
	m.bankByID[b.ID] = b
	return m.saveBanksLocked()
}

// SubAccounts aggregates known sub-accounts per account name for UI
// autocompletion: vendor subs under 売掛金/売上高 or 買掛金/仕入高 by
// vendor type, bank subs under 普通預金.
func (m *Master) SubAccounts() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := map[string][]string{
		"売掛金":  {},
		"買掛金":  {},
		"普通預金": {},
		"売上高":  {},
		"仕入高":  {},
	}
	appendUnique := func(key, sub string) {
		for _, s := range out[key] {
			if s == sub {
				return
			}
		}
		out[key] = append(out[key], sub)
	}

	for _, v := range m.vendors {
		switch v.Type {
		case "client":
			appendUnique("売掛金", v.SubAccount)
			appendUnique("売上高", v.SubAccount)
		case "supplier":
			appendUnique("買掛金", v.SubAccount)
			appendUnique("仕入高", v.SubAccount)
		}
	}
	for _, b := range m.banks {
		appendUnique("普通預金", b.SubAccount)
	}
	return out
}

// SuggestRule guesses a journal rule from a vendor's configured default
// rule, falling back to description keywords.
func (m *Master) SuggestRule(vendorName, description string) (rules.RuleID, bool) {
	if v, ok := m.Vendor(vendorName); ok && v.DefaultRule != "" {
		return rules.RuleID(v.DefaultRule), true
	}

	suggestions := []struct {
		keyword string
		id      rules.RuleID
	}{
		{"外注", rules.RuleOutsourcingExpense},
		{"家賃", rules.RuleLandRent},
		{"賃料", rules.RuleRent},
		{"保険", rules.RuleInsurance},
		{"通信", rules.RuleCommunicationExpense},
		{"旅費", rules.RuleTravelExpense},
		{"交通", rules.RuleTravelExpense},
		{"消耗品", rules.RuleConsumables},
		{"仕入", rules.RulePurchase},
		{"売上", rules.RuleSalesReceivable},
		{"入金", rules.RulePaymentReceived},
	}
	for _, s := range suggestions {
		if strings.Contains(description, s.keyword) {
			return s.id, true
		}
	}
	return "", false
}

func (m *Master) saveVendorsLocked() error {
	return writeYAML(filepath.Join(m.dir, "vendors.yaml"), vendorsFile{Vendors: m.vendors})
}

func (m *Master) saveBanksLocked() error {
	return writeYAML(filepath.Join(m.dir, "banks.yaml"), banksFile{
		Banks:       m.banks,
		DefaultBank: m.defaultBank,
	})
}

// readYAML unmarshals a YAML file into out; a missing file returns
// ok=false without error.
func readYAML(path string, out interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

func writeYAML(path string, in interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create master data directory: %w", err)
	}
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
