// Package rules implements deterministic rule-based classification of
// bank-statement transactions: a prioritized keyword table mapping
// transaction descriptions to accounting rule categories, and a
// group-company matcher used to detect receivable collections.
package rules

import (
	"sort"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
)

// RuleID identifies one accounting classification category. The set of
// IDs is closed; unknown IDs are a bug, not a runtime fallback.
type RuleID string

// Deposit-side categories.
const (
	RuleReceivableCollection     RuleID = "receivable_collection"
	RuleTemporaryReceivedDeposit RuleID = "temporary_received_deposit"
	RuleShortTermLoanReceipt     RuleID = "short_term_loan_receipt"
	RuleShortTermBorrowing       RuleID = "short_term_borrowing"
	RuleMiscellaneousIncome      RuleID = "miscellaneous_income"
	RuleTaxRefund                RuleID = "tax_refund"
)

// Withdrawal-side categories.
const (
	RuleBankFee                RuleID = "bank_fee"
	RuleCorporateTaxPayment    RuleID = "corporate_tax_payment"
	RuleConsumptionTaxPayment  RuleID = "consumption_tax_payment"
	RuleSalaryPayment          RuleID = "salary_payment"
	RuleResidentTaxPayment     RuleID = "resident_tax_payment"
	RuleSocialInsurancePayment RuleID = "social_insurance_payment"
	RuleOutsourcingPayment     RuleID = "outsourcing_payment"
	RuleLeasePayment           RuleID = "lease_payment"
	RuleLandRentPayment        RuleID = "land_rent_payment"
	RuleUtilitiesPayment       RuleID = "utilities_payment"
	RuleCommunicationExpense   RuleID = "communication_expense"
	RuleInsurance              RuleID = "insurance"
	RuleLongTermLoan           RuleID = "long_term_loan"
	RuleInterestExpense        RuleID = "interest_expense"
	RulePurchasePayment        RuleID = "purchase_payment"
	RuleTravelExpenseBank      RuleID = "travel_expense_bank"
	RuleWelfareExpense         RuleID = "welfare_expense"
	RuleConsumablesPayment     RuleID = "consumables_payment"
	RuleAdvertising            RuleID = "advertising"
	RuleFixedAssetPurchase     RuleID = "fixed_asset_purchase"
	RuleVehicleExpense         RuleID = "vehicle_expense"
	RuleShortTermLoanPayment   RuleID = "short_term_loan_payment"
	RulePrepaidExpensePayment  RuleID = "prepaid_expense_payment"
	RuleBankTransfer           RuleID = "bank_transfer"
	RuleMiscellaneous          RuleID = "miscellaneous"
)

// Invoice/journal categories not reachable from bank statements.
const (
	RuleSalesReceivable         RuleID = "sales_receivable"
	RulePaymentReceived         RuleID = "payment_received"
	RulePurchase                RuleID = "purchase"
	RuleAdvanceReceivedTransfer RuleID = "advance_received_transfer"
	RuleTemporaryReceived       RuleID = "temporary_received"
	RuleRent                    RuleID = "rent"
	RuleLandRent                RuleID = "land_rent"
	RuleOutsourcingExpense      RuleID = "outsourcing_expense"
	RuleTravelExpense           RuleID = "travel_expense"
	RuleUtilities               RuleID = "utilities"
	RuleConsumables             RuleID = "consumables"
)

// keywordRule binds a rule category to its description keywords for one
// transaction direction. Lower priority wins when multiple categories
// match the same description.
type keywordRule struct {
	ID        RuleID
	Direction models.Direction
	Priority  int
	Keywords  []string
}

// descriptionRules is the keyword table derived from past statement data.
// Keyword sets include half-width katakana variants seen in bank feeds.
var descriptionRules = []keywordRule{
	// 入金系
	{RuleReceivableCollection, models.DirectionDeposit, 1,
		[]string{"売掛金", "売掛", "入金", "さくら会", "口腔ケア", "スマイル会", "ハピネス", "浩蘭会", "仁鈴会"}},
	{RuleTemporaryReceivedDeposit, models.DirectionDeposit, 2,
		[]string{"不明入金", "仮受"}},
	{RuleShortTermLoanReceipt, models.DirectionDeposit, 3,
		[]string{"貸付金回収", "短期貸付"}},
	{RuleShortTermBorrowing, models.DirectionDeposit, 4,
		[]string{"借入", "融資"}},
	{RuleMiscellaneousIncome, models.DirectionDeposit, 5,
		[]string{"雑収入", "還付", "返金"}},
	{RuleTaxRefund, models.DirectionDeposit, 6,
		[]string{"法人税還付", "国税還付", "還付金"}},

	// 出金系
	{RuleBankFee, models.DirectionWithdrawal, 10,
		[]string{"振込手数料", "手数料", "テスウリヨウ", "ﾃｽｳﾘﾖｳ"}},
	{RuleCorporateTaxPayment, models.DirectionWithdrawal, 11,
		[]string{"法人税", "住民税", "事業税", "国税", "地方税", "法人都道府県民税", "法人市民税"}},
	{RuleConsumptionTaxPayment, models.DirectionWithdrawal, 12,
		[]string{"消費税", "消費税等"}},
	{RuleSalaryPayment, models.DirectionWithdrawal, 13,
		[]string{"給与", "給料", "賃金", "キュウヨ", "ｷｭｳﾖ"}},
	{RuleResidentTaxPayment, models.DirectionWithdrawal, 14,
		[]string{"住民税", "特別徴収"}},
	{RuleSocialInsurancePayment, models.DirectionWithdrawal, 15,
		[]string{"社会保険", "健康保険", "厚生年金", "年金", "社保", "労働保険", "雇用保険"}},
	{RuleOutsourcingPayment, models.DirectionWithdrawal, 16,
		[]string{"外注", "コーシ", "ｺｰｼ", "エディ", "ﾕｰｽ", "マツクボ"}},
	{RuleLeasePayment, models.DirectionWithdrawal, 17,
		[]string{"リース", "ﾘｰｽ", "PCリース", "コピー機"}},
	{RuleLandRentPayment, models.DirectionWithdrawal, 18,
		[]string{"家賃", "賃料", "地代", "共益費", "管理費"}},
	{RuleUtilitiesPayment, models.DirectionWithdrawal, 19,
		[]string{"電気", "水道", "ガス", "光熱", "中部電力", "東邦ガス"}},
	{RuleCommunicationExpense, models.DirectionWithdrawal, 20,
		[]string{"電話", "通信", "NTT", "ドコモ", "ソフトバンク", "KDDI"}},
	{RuleInsurance, models.DirectionWithdrawal, 21,
		[]string{"保険", "損保", "生保", "東京海上", "三井住友海上"}},
	{RuleLongTermLoan, models.DirectionWithdrawal, 22,
		[]string{"借入返済", "長期借入", "ローン", "元金", "返済"}},
	{RuleInterestExpense, models.DirectionWithdrawal, 23,
		[]string{"利息", "金利"}},
	{RulePurchasePayment, models.DirectionWithdrawal, 24,
		[]string{"仕入", "買掛", "支払"}},
	{RuleTravelExpenseBank, models.DirectionWithdrawal, 25,
		[]string{"出張", "旅費", "交通費"}},
	{RuleWelfareExpense, models.DirectionWithdrawal, 26,
		[]string{"慶祝金", "弔慰金", "祝金", "見舞金", "福利"}},
	{RuleConsumablesPayment, models.DirectionWithdrawal, 27,
		[]string{"消耗品", "備品", "文具", "アスクル", "ASKUL"}},
	{RuleAdvertising, models.DirectionWithdrawal, 28,
		[]string{"広告", "宣伝", "印刷", "パンフレット"}},
	{RuleFixedAssetPurchase, models.DirectionWithdrawal, 29,
		[]string{"固定資産", "工具", "器具", "備品購入", "設備"}},
	{RuleVehicleExpense, models.DirectionWithdrawal, 30,
		[]string{"車両", "自動車", "ガソリン", "燃料", "駐車"}},
	{RuleShortTermLoanPayment, models.DirectionWithdrawal, 31,
		[]string{"貸付", "短期貸付実行"}},
	{RulePrepaidExpensePayment, models.DirectionWithdrawal, 32,
		[]string{"前払", "前納"}},
	{RuleBankTransfer, models.DirectionWithdrawal, 33,
		[]string{"振替", "口座振替", "自振", "ﾌﾘｺﾐ"}},
	{RuleMiscellaneous, models.DirectionWithdrawal, 99, nil}, // default
}

// sortedRules is descriptionRules ordered by ascending priority, computed
// once at package init so Classify is a plain first-match-wins scan.
var sortedRules []keywordRule

func init() {
	sortedRules = make([]keywordRule, len(descriptionRules))
	copy(sortedRules, descriptionRules)
	sort.SliceStable(sortedRules, func(i, j int) bool {
		return sortedRules[i].Priority < sortedRules[j].Priority
	})
}
