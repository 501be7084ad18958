package rules

import (
	"strings"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/models"
)

// ReviewThreshold is the confidence below which a classification should
// be confirmed by a human before export.
const ReviewThreshold = 0.7

// Result is the outcome of classifying one transaction description.
type Result struct {
	RuleID     RuleID  `json:"rule_id"`
	VendorName string  `json:"vendor_name"`
	Confidence float64 `json:"confidence"`
}

// NeedsReview reports whether the classification should be verified by a
// human before committing.
func (r Result) NeedsReview() bool {
	return r.Confidence < ReviewThreshold
}

// Classify maps a free-text transaction description and its direction to
// an accounting rule category.
//
// The keyword table is scanned in priority order; the first category with
// a matching keyword wins, so ties between categories are resolved by
// priority regardless of keyword order. Deposits additionally scan the
// group-company table: a company hit always records the vendor name, and
// claims the receivable-collection category only when no keyword rule
// matched. Unmatched descriptions fall back to the direction's default
// category at confidence 0.5.
func Classify(description string, direction models.Direction) Result {
	var (
		matched    RuleID
		confidence float64
		vendor     string
	)

	lower := strings.ToLower(description)

scan:
	for _, rule := range sortedRules {
		if rule.Direction != direction {
			continue
		}
		for _, kw := range rule.Keywords {
			// Both raw and case-folded containment; bank feeds mix
			// full-width and ASCII casing for the same vendor.
			if strings.Contains(description, kw) || strings.Contains(lower, strings.ToLower(kw)) {
				matched = rule.ID
				confidence = 0.9 - float64(rule.Priority)*0.01
				break scan
			}
		}
	}

	if direction == models.DirectionDeposit {
		if name, ok := MatchCompanyInText(description); ok {
			vendor = name
			if matched == "" {
				matched = RuleReceivableCollection
				confidence = 0.85
			}
		}
	}

	if matched == "" {
		if direction == models.DirectionDeposit {
			matched = RuleTemporaryReceivedDeposit
		} else {
			matched = RuleMiscellaneous
		}
		confidence = 0.5
	}

	return Result{RuleID: matched, VendorName: vendor, Confidence: confidence}
}
