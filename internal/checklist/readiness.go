package checklist

// Readiness gate thresholds. These are tuning knobs, not business logic:
// each gate is a conjunction of category completion percentages, and the
// numbers below are the most likely thing an operator will want to adjust.
const (
	filingLegalThreshold     = 80
	filingContactThreshold   = 90
	einLegalThreshold        = 90
	bankLegalThreshold       = 80
	bankFinancialThreshold   = 50
	domainOnlineThreshold    = 60
	launchMarketingThreshold = 70
	launchBrandThreshold     = 60
)

// Readiness indicates which downstream formation services can begin.
type Readiness struct {
	ReadyForLLCFiling          bool `json:"ready_for_llc_filing"`
	ReadyForEINApplication     bool `json:"ready_for_ein_application"`
	ReadyForBankAccount        bool `json:"ready_for_bank_account"`
	ReadyForDomainPurchase     bool `json:"ready_for_domain_purchase"`
	ReadyForLaunchAnnouncement bool `json:"ready_for_launch_announcement"`
}

// Evaluate derives the five readiness gates from a completion report.
// Gates are independent; none implies another.
func Evaluate(r CompletionReport) Readiness {
	return Readiness{
		ReadyForLLCFiling: r.CategoryPercent(1, "legal_foundation") >= filingLegalThreshold &&
			r.CategoryPercent(1, "contact_info") >= filingContactThreshold,
		ReadyForEINApplication: r.CategoryPercent(1, "legal_foundation") >= einLegalThreshold,
		ReadyForBankAccount: r.CategoryPercent(1, "legal_foundation") >= bankLegalThreshold &&
			r.CategoryPercent(3, "financial_setup") >= bankFinancialThreshold,
		ReadyForDomainPurchase: r.CategoryPercent(2, "online_presence") >= domainOnlineThreshold,
		ReadyForLaunchAnnouncement: r.CategoryPercent(4, "marketing_strategy") >= launchMarketingThreshold &&
			r.CategoryPercent(2, "brand_identity") >= launchBrandThreshold,
	}
}
