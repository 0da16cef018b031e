// Package eligibility computes maximum financeable amounts and enumerates
// regulatory violations for a single scenario. Infeasibility is data, not
// failure: the evaluator never returns an error for a breached ceiling.
package eligibility

import (
	"fmt"
	"math"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/config"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

const (
	// baselineAnnualRate prices the affordability annuity when no
	// mix-specific payment override is supplied.
	baselineAnnualRate = 0.04

	ratioEpsilon = 1e-6
)

// Violation codes. The feasibility layer maps these onto its public issue
// vocabulary; refinance codes fall through to regulatory_violation there.
const (
	CodeEquityShortfall       = "equity_shortfall"
	CodePTIExceedsLimit       = "pti_exceeds_limit"
	CodeLTVExceedsLimit       = "ltv_exceeds_limit"
	CodeVariableShareExceeds  = "variable_share_exceeds_limit"
	CodeLoanTermExceedsLimit  = "loan_term_exceeds_limit"
	CodeRefinancePTIWorsened  = "refinance_pti_worsened"
	CodeRefinanceLTVWorsened  = "refinance_ltv_worsened"
	CodeRefinanceVarWorsened  = "refinance_variable_share_worsened"
)

// Violation is one breached regulatory ceiling.
type Violation struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Request carries every evaluation input as a named field. Optional inputs
// are pointers; nil means "not supplied".
type Request struct {
	MonthlyNetIncome     float64
	PropertyPrice        float64
	DownPaymentAvailable float64

	PropertyType domain.PropertyType
	DealType     domain.DealType
	Occupancy    domain.OccupancyIntent
	RiskProfile  domain.RiskProfile

	ExistingLoansPayment float64
	OtherHousingPayments float64
	BorrowerRentExpense  float64
	LoanTermYears        int

	// MonthlyPaymentOverride carries a mix-specific payment already computed
	// by the optimizer; when present, the max loan is derived by proportional
	// scaling instead of the annuity inversion.
	MonthlyPaymentOverride *float64
	// PeakPaymentOverride is the worst expected payment under stress.
	PeakPaymentOverride *float64

	VariableShareRatio  *float64
	IsBridgeLoan        bool
	BridgeTermMonths    *int
	AnyPurposeAmountNIS *float64

	IsReducedPriceDwelling bool
	AppraisedValueNIS      *float64

	IsRefinance                bool
	PreviousPTIRatio           *float64
	PreviousLTVRatio           *float64
	PreviousVariableShareRatio *float64
}

// Result is the immutable snapshot of one evaluation.
type Result struct {
	MaxLoanAmount          float64     `json:"max_loan_amount"`
	MonthlyPaymentCapacity float64     `json:"monthly_payment_capacity"`
	RequiredDownPayment    float64     `json:"required_down_payment"`
	PTIRatio               float64     `json:"debt_to_income_ratio"`
	PTIRatioPeak           float64     `json:"peak_debt_to_income_ratio"`
	LTVRatio               float64     `json:"loan_to_value_ratio"`
	LTVValueBasis          float64     `json:"ltv_value_basis"`
	LTVLimit               float64     `json:"ltv_limit"`
	AssessedMonthlyPayment float64     `json:"assessed_monthly_payment"`
	PTILimitApplied        float64     `json:"pti_limit_applied"`
	TotalPropertyPrice     float64     `json:"total_property_price"`
	IsEligible             bool        `json:"is_eligible"`
	Violations             []Violation `json:"violations"`
	Warnings               []string    `json:"warnings"`
	AppliedExceptions      []string    `json:"applied_exceptions"`
}

// Evaluator applies the regulatory guardrails to evaluation requests.
type Evaluator struct {
	limits *config.RegulatoryLimits
}

// NewEvaluator creates an evaluator bound to a limits configuration.
func NewEvaluator(limits *config.RegulatoryLimits) *Evaluator {
	return &Evaluator{limits: limits}
}

// Evaluate computes the max financeable amount, actual ratios, and every
// violation/warning/exception for one scenario.
func (e *Evaluator) Evaluate(req Request) Result {
	months := maxInt(req.LoanTermYears, 1) * 12

	// Owner-occupiers are not charged a rent deduction.
	disposable := req.MonthlyNetIncome
	if req.Occupancy == domain.OccupancyRent {
		disposable -= req.BorrowerRentExpense
	}
	incomeDenominator := math.Max(disposable, 1)

	ptiCap := e.limits.AppliedPTILimit(req.RiskProfile)
	affordablePayment := disposable*ptiCap - req.ExistingLoansPayment - req.OtherHousingPayments
	if affordablePayment < 0 {
		affordablePayment = 0
	}

	ltvCap := e.limits.LTVLimit(req.PropertyType, req.DealType)
	basis := e.ltvValueBasis(req)
	maxLoanByLTV := basis * ltvCap

	actualLoan := math.Max(req.PropertyPrice-req.DownPaymentAvailable, 0)

	assessedPayment := MonthlyPayment(actualLoan, baselineAnnualRate, months)
	overrideUsed := false
	if req.MonthlyPaymentOverride != nil && *req.MonthlyPaymentOverride > 0 {
		assessedPayment = *req.MonthlyPaymentOverride
		overrideUsed = true
	}

	var maxLoanByPayment float64
	if overrideUsed {
		// The caller already priced this specific mix; scale the actual loan
		// by how much payment headroom remains.
		maxLoanByPayment = actualLoan * (affordablePayment / assessedPayment)
	} else {
		maxLoanByPayment = MaxLoanForPayment(affordablePayment, baselineAnnualRate, months)
	}

	maxLoan := math.Min(maxLoanByPayment, maxLoanByLTV)
	if maxLoan < 0 {
		maxLoan = 0
	}
	requiredDownPayment := math.Max(req.PropertyPrice-maxLoan, 0)

	ptiRatio := (assessedPayment + req.ExistingLoansPayment + req.OtherHousingPayments) / incomeDenominator

	peakPayment := assessedPayment
	if req.PeakPaymentOverride != nil && *req.PeakPaymentOverride > peakPayment {
		peakPayment = *req.PeakPaymentOverride
	}
	ptiPeak := (peakPayment + req.ExistingLoansPayment + req.OtherHousingPayments) / incomeDenominator

	var ltvRatio float64
	if basis > 0 {
		ltvRatio = actualLoan / basis
	}

	result := Result{
		MaxLoanAmount:          maxLoan,
		MonthlyPaymentCapacity: affordablePayment,
		RequiredDownPayment:    requiredDownPayment,
		PTIRatio:               ptiRatio,
		PTIRatioPeak:           ptiPeak,
		LTVRatio:               ltvRatio,
		LTVValueBasis:          basis,
		LTVLimit:               ltvCap,
		AssessedMonthlyPayment: assessedPayment,
		PTILimitApplied:        ptiCap,
		TotalPropertyPrice:     req.PropertyPrice,
		Violations:             []Violation{},
		Warnings:               []string{},
		AppliedExceptions:      []string{},
	}

	e.checkEquity(&result, req)
	e.checkPTI(&result, ptiCap, overrideUsed)
	e.checkLTV(&result, ltvCap)
	e.checkVariableShare(&result, req)
	e.checkTerm(&result, req)
	e.checkRefinance(&result, req)

	result.IsEligible = len(result.Violations) == 0
	return result
}

// ltvValueBasis resolves the value the LTV ratio is measured against. For
// buyer-price dwellings with an appraisal, an appraisal at or under the cap
// replaces the purchase price; an appraisal above the cap yields
// max(cap, price). The rule can raise or hold the basis but never lowers it
// below the cap once the appraisal exceeds it.
func (e *Evaluator) ltvValueBasis(req Request) float64 {
	if !req.IsReducedPriceDwelling || req.AppraisedValueNIS == nil {
		return req.PropertyPrice
	}
	appraisal := *req.AppraisedValueNIS
	cap := e.limits.BuyerPriceAppraisalCapNIS
	if appraisal <= cap {
		return appraisal
	}
	return math.Max(cap, req.PropertyPrice)
}

func (e *Evaluator) checkEquity(result *Result, req Request) {
	shortfall := result.RequiredDownPayment - req.DownPaymentAvailable
	if shortfall > ratioEpsilon {
		result.Violations = append(result.Violations, Violation{
			Code:    CodeEquityShortfall,
			Message: fmt.Sprintf("additional equity of %.0f NIS required to close the down payment gap", shortfall),
			Details: map[string]interface{}{
				"required_down_payment": result.RequiredDownPayment,
				"additional_equity":     shortfall,
			},
		})
	}
}

func (e *Evaluator) checkPTI(result *Result, ptiCap float64, overrideUsed bool) {
	if result.PTIRatio > ptiCap+ratioEpsilon {
		message := fmt.Sprintf("payment-to-income ratio %.1f%% exceeds the %.0f%% limit", result.PTIRatio*100, ptiCap*100)
		if overrideUsed {
			message = fmt.Sprintf("payment-to-income ratio %.1f%% (from the assessed mix payment) exceeds the %.0f%% limit", result.PTIRatio*100, ptiCap*100)
		}
		result.Violations = append(result.Violations, Violation{
			Code:    CodePTIExceedsLimit,
			Message: message,
			Details: map[string]interface{}{"pti_ratio": result.PTIRatio, "pti_limit": ptiCap},
		})
	}
	if result.PTIRatio > e.limits.PTIWarningThreshold+ratioEpsilon &&
		result.PTIRatio <= e.limits.PTIRegulatoryLimit+ratioEpsilon {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"payment-to-income ratio %.1f%% is above %.0f%%, approaching the regulatory ceiling",
			result.PTIRatio*100, e.limits.PTIWarningThreshold*100))
	}
}

func (e *Evaluator) checkLTV(result *Result, ltvCap float64) {
	if result.LTVRatio > ltvCap+ratioEpsilon {
		result.Violations = append(result.Violations, Violation{
			Code:    CodeLTVExceedsLimit,
			Message: fmt.Sprintf("loan-to-value ratio %.0f%% exceeds the %.0f%% ceiling", result.LTVRatio*100, ltvCap*100),
			Details: map[string]interface{}{"ltv_ratio": result.LTVRatio, "ltv_limit": ltvCap},
		})
	}
}

func (e *Evaluator) checkVariableShare(result *Result, req Request) {
	if req.VariableShareRatio == nil {
		return
	}
	share := *req.VariableShareRatio
	limit := e.limits.VariableShareLimit
	if share <= limit+ratioEpsilon {
		return
	}

	// First matching exception suppresses the violation; every applicable
	// exception is recorded for audit.
	rules := e.limits.Exceptions
	bridgeApplies := req.IsBridgeLoan && req.BridgeTermMonths != nil &&
		*req.BridgeTermMonths <= rules.MaxBridgeTermMonths
	anyPurposeApplies := req.AnyPurposeAmountNIS != nil && *req.AnyPurposeAmountNIS > 0 &&
		*req.AnyPurposeAmountNIS <= rules.AnyPurposeAmountNIS

	if bridgeApplies {
		result.AppliedExceptions = append(result.AppliedExceptions,
			fmt.Sprintf("bridge_loan_exception_under_%d_months", rules.MaxBridgeTermMonths))
	}
	if anyPurposeApplies {
		result.AppliedExceptions = append(result.AppliedExceptions,
			fmt.Sprintf("any_purpose_loan_exception_under_%.0fk_nis", rules.AnyPurposeAmountNIS/1000))
	}
	if bridgeApplies || anyPurposeApplies {
		return
	}

	result.Violations = append(result.Violations, Violation{
		Code:    CodeVariableShareExceeds,
		Message: fmt.Sprintf("variable-rate exposure %.1f%% exceeds the %.1f%% ceiling", share*100, limit*100),
		Details: map[string]interface{}{"variable_share": share, "variable_share_limit": limit},
	})
}

func (e *Evaluator) checkTerm(result *Result, req Request) {
	if req.LoanTermYears > e.limits.MaxTermYears {
		result.Violations = append(result.Violations, Violation{
			Code:    CodeLoanTermExceedsLimit,
			Message: fmt.Sprintf("loan term of %d years exceeds the %d-year maximum", req.LoanTermYears, e.limits.MaxTermYears),
			Details: map[string]interface{}{"loan_term_years": req.LoanTermYears, "loan_term_limit": e.limits.MaxTermYears},
		})
	}
}

// checkRefinance enforces the no-worsening rule: a refinance may not leave
// the borrower with a worse PTI, LTV, or variable share than the loan it
// replaces.
func (e *Evaluator) checkRefinance(result *Result, req Request) {
	if !req.IsRefinance {
		return
	}
	if req.PreviousPTIRatio != nil && result.PTIRatio > *req.PreviousPTIRatio+ratioEpsilon {
		result.Violations = append(result.Violations, Violation{
			Code: CodeRefinancePTIWorsened,
			Message: fmt.Sprintf("refinance would raise payment-to-income from %.1f%% to %.1f%%",
				*req.PreviousPTIRatio*100, result.PTIRatio*100),
		})
	}
	if req.PreviousLTVRatio != nil && result.LTVRatio > *req.PreviousLTVRatio+ratioEpsilon {
		result.Violations = append(result.Violations, Violation{
			Code: CodeRefinanceLTVWorsened,
			Message: fmt.Sprintf("refinance would raise loan-to-value from %.0f%% to %.0f%%",
				*req.PreviousLTVRatio*100, result.LTVRatio*100),
		})
	}
	if req.PreviousVariableShareRatio != nil && req.VariableShareRatio != nil &&
		*req.VariableShareRatio > *req.PreviousVariableShareRatio+ratioEpsilon {
		result.Violations = append(result.Violations, Violation{
			Code: CodeRefinanceVarWorsened,
			Message: fmt.Sprintf("refinance would raise variable-rate exposure from %.1f%% to %.1f%%",
				*req.PreviousVariableShareRatio*100, *req.VariableShareRatio*100),
		})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
