package domain

// Stable feasibility issue codes. External callers key presentation and
// routing decisions off these, so they never change meaning.
const (
	IssueInvalidPropertyPrice    = "invalid_property_price"
	IssueEquityShortfall         = "equity_shortfall"
	IssuePTIExceedsLimit         = "pti_exceeds_limit"
	IssueLTVExceedsLimit         = "ltv_exceeds_limit"
	IssueVariableShareExceedsLim = "variable_share_exceeds_limit"
	IssueLoanTermExceedsLimit    = "loan_term_exceeds_limit"
	IssueAgeTermBeyondRetirement = "age_term_beyond_retirement"
	IssueRegulatoryViolation     = "regulatory_violation"
)

// FeasibilityIssue is one coded blocking problem found during triage.
type FeasibilityIssue struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// FeasibilityResult summarizes a quick feasibility check.
type FeasibilityResult struct {
	IsFeasible            bool               `json:"is_feasible"`
	LTVRatio              float64            `json:"ltv_ratio"`
	LTVLimit              float64            `json:"ltv_limit"`
	PTIRatio              float64            `json:"pti_ratio"`
	PTILimit              float64            `json:"pti_limit"`
	PTIRatioPeak          *float64           `json:"pti_ratio_peak,omitempty"`
	VariableSharePct      *float64           `json:"variable_share_pct,omitempty"`
	VariableShareLimitPct *float64           `json:"variable_share_limit_pct,omitempty"`
	LoanTermYears         *int               `json:"loan_term_years,omitempty"`
	LoanTermLimitYears    *int               `json:"loan_term_limit_years,omitempty"`
	Issues                []FeasibilityIssue `json:"issues"`
}

// HasIssue reports whether the result carries an issue with the given code.
func (r FeasibilityResult) HasIssue(code string) bool {
	for _, issue := range r.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}
