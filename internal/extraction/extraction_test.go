package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantIssuer string
	}{
		{"bare object", `{"issuer": "ソクタ"}`, true, "ソクタ"},
		{"prose wrapped", "以下が抽出結果です。\n{\"issuer\": \"ソクタ\"}\nご確認ください。", true, "ソクタ"},
		{"code fence", "```json\n{\"issuer\": \"ソクタ\"}\n```", true, "ソクタ"},
		{"nested object", `{"issuer": "ソクタ", "items": [{"name": "指導料"}]}`, true, "ソクタ"},
		{"brace in string", `{"issuer": "ソクタ{株}", "date": ""}`, true, "ソクタ{株}"},
		{"escaped quote in string", `{"issuer": "\"ソクタ\""}`, true, `"ソクタ"`},
		{"second object valid", `{broken} {"issuer": "ソクタ"}`, true, "ソクタ"},
		{"no object", "請求書ではありません", false, ""},
		{"unclosed object", `{"issuer": "ソクタ"`, false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Record
			ok := ExtractJSON(tt.input, &rec)
			if ok != tt.wantOK {
				t.Fatalf("ExtractJSON ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && rec.Issuer != tt.wantIssuer {
				t.Errorf("Issuer = %q, want %q", rec.Issuer, tt.wantIssuer)
			}
		})
	}
}

func TestDetermineInvoiceType(t *testing.T) {
	tests := []struct {
		name      string
		issuer    string
		recipient string
		want      string
	}{
		{"group issuer is sales", "株式会社ＫＵＲＵＭＩ", "取引先商事", InvoiceSales},
		{"group recipient is purchase", "取引先商事", "株式会社ＫＵＲＵＭＩ", InvoicePurchase},
		{"unknown parties default purchase", "取引先商事", "別の商店", InvoicePurchase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineInvoiceType(tt.issuer, tt.recipient); got != tt.want {
				t.Errorf("DetermineInvoiceType(%q, %q) = %q, want %q",
					tt.issuer, tt.recipient, got, tt.want)
			}
		})
	}
}

func TestSuggestAccount(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   rules.RuleID
	}{
		{
			"expense report overrides keywords",
			Record{DocumentType: DocExpense, Description: "賃料のような文言"},
			rules.RuleTravelExpense,
		},
		{
			"celebration application",
			Record{DocumentType: DocCelebration},
			rules.RuleWelfareExpense,
		},
		{
			"rent keyword in description",
			Record{DocumentType: DocInvoice, Description: "12月分 賃料"},
			rules.RuleLandRent,
		},
		{
			"keyword in item name",
			Record{DocumentType: DocInvoice, Items: []Item{{Name: "コピー用紙ほか消耗品"}}},
			rules.RuleConsumables,
		},
		{
			"keyword in issuer",
			Record{DocumentType: DocInvoice, Issuer: "中部清掃サービス"},
			rules.RuleMiscellaneous,
		},
		{
			"sales default without keyword",
			Record{DocumentType: DocInvoice, InvoiceType: InvoiceSales, Description: "その他"},
			rules.RuleSalesReceivable,
		},
		{
			"purchase default without keyword",
			Record{DocumentType: DocInvoice, InvoiceType: InvoicePurchase, Description: "その他"},
			rules.RulePurchase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestAccount(&tt.record); got != tt.want {
				t.Errorf("SuggestAccount() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

	r := Record{Issuer: "取引先商事", Recipient: "株式会社ＫＵＲＵＭＩ"}
	r.Normalize(now)

	if r.DocumentType != DocInvoice {
		t.Errorf("DocumentType = %q, want invoice default", r.DocumentType)
	}
	if r.InvoiceType != InvoicePurchase {
		t.Errorf("InvoiceType = %q, want purchase", r.InvoiceType)
	}
	if r.SuggestedAccount != rules.RulePurchase {
		t.Errorf("SuggestedAccount = %q, want purchase", r.SuggestedAccount)
	}
	if r.Date != "2025-05-20" {
		t.Errorf("Date = %q, want today", r.Date)
	}
	if r.Description != "取引先商事 5月分" {
		t.Errorf("Description = %q, want 取引先商事 5月分", r.Description)
	}
}

func TestNormalizeDescriptionUsesDocumentMonth(t *testing.T) {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

	r := Record{Issuer: "取引先商事", Date: "2025-03-31"}
	r.Normalize(now)

	if r.Description != "取引先商事 3月分" {
		t.Errorf("Description = %q, want 取引先商事 3月分", r.Description)
	}
}

func TestNormalizeKeepsExistingFields(t *testing.T) {
	r := Record{
		DocumentType:     DocExpense,
		Date:             "2025-04-01",
		Description:      "出張精算 山田 大阪",
		InvoiceType:      InvoicePurchase,
		SuggestedAccount: rules.RuleTravelExpense,
	}
	r.Normalize(time.Now())

	if r.Description != "出張精算 山田 大阪" || r.Date != "2025-04-01" {
		t.Error("Normalize overwrote populated fields")
	}
}

func TestRecordAmount(t *testing.T) {
	tests := []struct {
		name  string
		total json.Number
		want  int64
	}{
		{"integer", json.Number("550000"), 550000},
		{"float", json.Number("550000.0"), 550000},
		{"empty", json.Number(""), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{TotalAmount: tt.total}
			if got := r.Amount(); got != tt.want {
				t.Errorf("Amount() = %d, want %d", got, tt.want)
			}
		})
	}
}

type stubExtractor struct {
	inFlight int32
	peak     int32
	failOn   string
}

func (s *stubExtractor) ExtractDocument(path string) (*Record, error) {
	current := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&s.peak)
		if current <= peak || atomic.CompareAndSwapInt32(&s.peak, peak, current) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	if path == s.failOn {
		return nil, errors.New("unreadable scan")
	}
	return &Record{SourceFile: path, Issuer: "取引先商事"}, nil
}

func TestProcessBatch(t *testing.T) {
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("invoice_%02d.pdf", i)
	}
	stub := &stubExtractor{failOn: "invoice_07.pdf"}

	results, err := ProcessBatch(stub, paths, 4)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}

	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q, want input order preserved", i, r.Path)
		}
	}
	if results[7].Err == nil || results[7].Record != nil {
		t.Error("failed file should carry an error and no record")
	}
	if results[6].Err != nil || results[6].Record == nil {
		t.Error("neighboring file was affected by another file's failure")
	}
	if peak := atomic.LoadInt32(&stub.peak); peak > 4 {
		t.Errorf("peak concurrency = %d, want at most 4", peak)
	}
}

func TestProcessBatchLimits(t *testing.T) {
	paths := make([]string, MaxBatchFiles+1)
	for i := range paths {
		paths[i] = fmt.Sprintf("f%d.pdf", i)
	}
	if _, err := ProcessBatch(&stubExtractor{}, paths, 0); err == nil {
		t.Error("ProcessBatch accepted a batch over the file limit")
	}

	results, err := ProcessBatch(&stubExtractor{}, nil, 0)
	if err != nil || results != nil {
		t.Errorf("empty batch = (%v, %v), want (nil, nil)", results, err)
	}
}
