package master

import "github.com/shunichi-ikebuchi/yayoi-bridge/internal/rules"

const defaultBankID = "aichi_kasugai"

func defaultBanks() []Bank {
	return []Bank{
		{ID: "aichi_kasugai", Name: "愛知銀行 春日井支店", SubAccount: "愛知銀行春日井"},
		{ID: "mufg_nagoya", Name: "三菱UFJ銀行 名古屋支店", SubAccount: "三菱UFJ名古屋"},
		{ID: "smbc_nagoya", Name: "三井住友銀行 名古屋支店", SubAccount: "三井住友名古屋"},
	}
}

// defaultRules is the built-in rule registry, used when no
// journal_rules.yaml is present. Tax categories follow the Yayoi
// consumption-tax labels (課対仕入10%, 簡売五10%, 対象外, ...).
func defaultRules() []Rule {
	return []Rule{
		// 入金系（借方は普通預金）
		{rules.RuleReceivableCollection, "売掛金回収", "普通預金", "対象外", "売掛金", "対象外"},
		{rules.RuleTemporaryReceivedDeposit, "不明入金（仮受）", "普通預金", "対象外", "仮受金", "対象外"},
		{rules.RuleShortTermLoanReceipt, "貸付金回収", "普通預金", "対象外", "短期貸付金", "対象外"},
		{rules.RuleShortTermBorrowing, "短期借入", "普通預金", "対象外", "短期借入金", "対象外"},
		{rules.RuleMiscellaneousIncome, "雑収入", "普通預金", "対象外", "雑収入", "課税売上10%"},
		{rules.RuleTaxRefund, "税金還付", "普通預金", "対象外", "雑収入", "不課税"},

		// 出金系（貸方は普通預金）
		{rules.RuleBankFee, "振込手数料", "支払手数料", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleCorporateTaxPayment, "法人税等納付", "法人税等", "対象外", "普通預金", "対象外"},
		{rules.RuleConsumptionTaxPayment, "消費税納付", "租税公課", "対象外", "普通預金", "対象外"},
		{rules.RuleSalaryPayment, "給与支払", "給料手当", "対象外", "普通預金", "対象外"},
		{rules.RuleResidentTaxPayment, "住民税納付", "預り金", "対象外", "普通預金", "対象外"},
		{rules.RuleSocialInsurancePayment, "社会保険料", "法定福利費", "対象外", "普通預金", "対象外"},
		{rules.RuleOutsourcingPayment, "外注費支払", "外注費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleLeasePayment, "リース料", "賃借料", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleLandRentPayment, "地代家賃", "地代家賃", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleUtilitiesPayment, "水道光熱費", "水道光熱費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleCommunicationExpense, "通信費", "通信費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleInsurance, "保険料", "保険料", "非課税", "普通預金", "対象外"},
		{rules.RuleLongTermLoan, "借入金返済", "長期借入金", "対象外", "普通預金", "対象外"},
		{rules.RuleInterestExpense, "支払利息", "支払利息", "非課税", "普通預金", "対象外"},
		{rules.RulePurchasePayment, "買掛金支払", "買掛金", "対象外", "普通預金", "対象外"},
		{rules.RuleTravelExpenseBank, "旅費交通費", "旅費交通費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleWelfareExpense, "福利厚生費", "福利厚生費", "対象外", "普通預金", "対象外"},
		{rules.RuleConsumablesPayment, "消耗品費", "消耗品費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleAdvertising, "広告宣伝費", "広告宣伝費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleFixedAssetPurchase, "固定資産購入", "工具器具備品", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleVehicleExpense, "車両費", "車両費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleShortTermLoanPayment, "貸付実行", "短期貸付金", "対象外", "普通預金", "対象外"},
		{rules.RulePrepaidExpensePayment, "前払費用", "前払費用", "対象外", "普通預金", "対象外"},
		{rules.RuleBankTransfer, "口座振替", "諸口", "対象外", "普通預金", "対象外"},
		{rules.RuleMiscellaneous, "雑費", "雑費", "課対仕入10%", "普通預金", "対象外"},

		// 請求書・手入力系
		{rules.RuleSalesReceivable, "売上計上", "売掛金", "対象外", "売上高", "簡売五10%"},
		{rules.RulePaymentReceived, "入金処理", "普通預金", "対象外", "売掛金", "対象外"},
		{rules.RulePurchase, "仕入計上", "仕入高", "課対仕入10%", "買掛金", "対象外"},
		{rules.RuleAdvanceReceivedTransfer, "前受金振替", "前受収益", "対象外", "売上高", "簡売五10%"},
		{rules.RuleTemporaryReceived, "仮受金計上", "普通預金", "対象外", "仮受金", "対象外"},
		{rules.RuleRent, "賃借料", "賃借料", "課対仕入10%", "買掛金", "対象外"},
		{rules.RuleLandRent, "地代家賃（請求書）", "地代家賃", "課対仕入10%", "買掛金", "対象外"},
		{rules.RuleOutsourcingExpense, "外注費（請求書）", "外注費", "課対仕入10%", "買掛金", "対象外"},
		{rules.RuleTravelExpense, "旅費精算", "旅費交通費", "課対仕入10%", "普通預金", "対象外"},
		{rules.RuleUtilities, "水道光熱費（請求書）", "水道光熱費", "課対仕入10%", "買掛金", "対象外"},
		{rules.RuleConsumables, "消耗品費（請求書）", "消耗品費", "課対仕入10%", "買掛金", "対象外"},
	}
}
