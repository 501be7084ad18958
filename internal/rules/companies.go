package rules

import "strings"

// GroupCompany is one affiliated company: its canonical (registered) name
// plus abbreviations and alternate-script spellings seen on statements.
type GroupCompany struct {
	Name    string
	Aliases []string
}

// groupCompanies is the affiliated-company reference table. Matching is
// approximate by design: short names may be substrings of unrelated text,
// and the first entry in table order governs when several could match.
var groupCompanies = []GroupCompany{
	// 株式会社
	{"株式会社ＳＯＫＵＴＡ", []string{"SOKUTA", "ソクタ"}},
	{"株式会社白", nil},
	{"株式会社ソーコー", []string{"ソーコー"}},
	{"株式会社有馬", []string{"有馬"}},
	{"株式会社ケイ", nil},
	{"株式会社ＫＵＲＵＭＩ", []string{"KURUMI", "クルミ"}},
	{"株式会社カーリー", []string{"カーリー"}},
	{"株式会社ヒロ", nil},
	{"株式会社リクル", []string{"リクル"}},
	{"株式会社医療白人", []string{"医療白人"}},
	{"株式会社sakura design", []string{"sakuradesign", "サクラデザイン"}},
	{"株式会社ノーブ", []string{"ノーブ"}},
	{"株式会社ヒーロ", []string{"ヒーロ"}},
	{"株式会社岩田", []string{"岩田"}},
	{"株式会社デンサポ", []string{"デンサポ"}},
	{"株式会社エナックス", []string{"エナックス"}},

	// 合同会社
	{"合同会社モト", []string{"モト"}},
	{"合同会社ユース", []string{"ユース"}},
	{"合同会社コーシ", []string{"コーシ"}},
	{"合同会社マツクボ", []string{"マツクボ"}},
	{"合同会社エディプラス", []string{"エディプラス"}},
	{"合同会社日本水販売", []string{"日本水販売"}},
	{"合同会社ハピネスユウ", []string{"ハピネスユウ"}},

	// ホールディングス・コンサル
	{"サンポウヨシホールディングス株式会社", []string{"サンポウヨシホールディングス", "サンポウHD", "サンポウ"}},
	{"コンゲン人事株式会社", []string{"コンゲン人事"}},
	{"M&Aプランナー株式会社", []string{"M&Aプランナー"}},
	{"コンゲンデンタル株式会社", []string{"コンゲンデンタル", "コンゲン"}},

	// 不動産
	{"トリプルウィン不動産株式会社", []string{"トリプルウィン不動産", "トリプルウィン"}},

	// 医療法人
	{"医療法人日本口腔ケア学会医療部門", []string{"日本口腔ケア学会", "口腔ケア"}},
	{"医療法人さくら会", []string{"さくら会"}},
	{"医療法人ハピネス", []string{"ハピネス"}},
	{"医療法人社団スマイル会", []string{"スマイル会"}},
	{"医療法人浩蘭会", []string{"浩蘭会"}},
	{"医療法人仁鈴会", []string{"仁鈴会"}},
	{"医療法人MOO", []string{"MOO"}},

	// 一般社団法人・海外
	{"一般社団法人中京医療情報発信センター", []string{"中京医療情報発信センター"}},
	{"VJCONSUL CO LTD", []string{"VJCONSUL"}},
}

// IsGroupCompany reports whether the given text names an affiliated
// company: exact equality, or substring containment in either direction,
// against the canonical name and every alias.
func IsGroupCompany(text string) bool {
	_, ok := BestAliasMatch(text)
	return ok
}

// BestAliasMatch returns the canonical company name matched by text, if
// any. First match in table order wins; callers must not assume a unique
// vendor when several company names overlap.
func BestAliasMatch(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	for _, c := range groupCompanies {
		if bidirContains(c.Name, text) {
			return c.Name, true
		}
		for _, alias := range c.Aliases {
			if bidirContains(alias, text) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// MatchCompanyInText scans a transaction description for a company name
// or alias appearing inside it, returning the matched alias form. Unlike
// BestAliasMatch this is one-directional: the name must occur in the
// text, the classifier's contract for deposit descriptions.
func MatchCompanyInText(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	for _, c := range groupCompanies {
		for _, alias := range c.Aliases {
			if strings.Contains(text, alias) {
				return alias, true
			}
		}
		if strings.Contains(text, c.Name) {
			return c.Name, true
		}
	}
	return "", false
}

// GroupCompanyNames returns all canonical names and aliases as a flat
// list, for master-data listings.
func GroupCompanyNames() []string {
	var out []string
	for _, c := range groupCompanies {
		out = append(out, c.Name)
		out = append(out, c.Aliases...)
	}
	return out
}

func bidirContains(name, text string) bool {
	if name == text {
		return true
	}
	return strings.Contains(text, name) || strings.Contains(name, text)
}
