// Package feasibility is the fast pre-triage layer: given loose, partially
// typed intake data it decodes classifications, runs the regulatory
// evaluation, and reports coded issues an advisor can act on. A negative
// answer is a normal result, never an error.
package feasibility

import (
	"fmt"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/config"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/eligibility"
)

// Params are the loosely-typed inputs of one feasibility probe. String
// classifications are decoded case-insensitively with logged fallbacks so a
// half-filled interview can still be triaged.
type Params struct {
	MonthlyNetIncome     float64
	PropertyPriceNIS     float64
	DownPaymentNIS       float64
	PropertyType         string
	DealType             string
	Occupancy            string
	RiskProfile          string
	ExistingLoansPayment float64
	OtherHousingPayments float64
	BorrowerRentExpense  float64
	LoanTermYears        *int
	BorrowerAge          *int

	AssessedMonthlyPayment *float64
	PeakMonthlyPayment     *float64
	VariableShareRatio     *float64

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

const (
	defaultTermYears = 25
	minTermYears     = 1
	maxTermYears     = 40
)

// Checker answers feasibility probes against a limits configuration.
type Checker struct {
	limits    *config.RegulatoryLimits
	evaluator *eligibility.Evaluator
}

// NewChecker creates a checker bound to the given limits.
func NewChecker(limits *config.RegulatoryLimits) *Checker {
	return &Checker{
		limits:    limits,
		evaluator: eligibility.NewEvaluator(limits),
	}
}

// Check runs the feasibility triage for one scenario.
func (c *Checker) Check(p Params) domain.FeasibilityResult {
	if p.PropertyPriceNIS <= 0 {
		return domain.FeasibilityResult{
			IsFeasible: false,
			LTVRatio:   1.0,
			LTVLimit:   1.0,
			PTIRatio:   1.0,
			PTILimit:   1.0,
			Issues: []domain.FeasibilityIssue{{
				Code:    domain.IssueInvalidPropertyPrice,
				Message: "property price must be positive to assess feasibility",
			}},
		}
	}

	property := domain.ParsePropertyType(p.PropertyType)
	deal := domain.ParseDealType(p.DealType, property)
	occupancy := domain.ParseOccupancy(p.Occupancy)
	deal = domain.ReconcileDealOccupancy(deal, occupancy)
	risk := domain.ParseRiskProfile(p.RiskProfile)

	termYears := defaultTermYears
	if p.LoanTermYears != nil {
		termYears = clampInt(*p.LoanTermYears, minTermYears, maxTermYears)
	}

	req := eligibility.Request{
		MonthlyNetIncome:           p.MonthlyNetIncome,
		PropertyPrice:              p.PropertyPriceNIS,
		DownPaymentAvailable:       p.DownPaymentNIS,
		PropertyType:               property,
		DealType:                   deal,
		Occupancy:                  occupancy,
		RiskProfile:                risk,
		ExistingLoansPayment:       p.ExistingLoansPayment,
		OtherHousingPayments:       p.OtherHousingPayments,
		BorrowerRentExpense:        p.BorrowerRentExpense,
		LoanTermYears:              termYears,
		MonthlyPaymentOverride:     p.AssessedMonthlyPayment,
		PeakPaymentOverride:        p.PeakMonthlyPayment,
		VariableShareRatio:         p.VariableShareRatio,
		IsBridgeLoan:               p.IsBridgeLoan,
		BridgeTermMonths:           p.BridgeTermMonths,
		AnyPurposeAmountNIS:        p.AnyPurposeAmountNIS,
		IsReducedPriceDwelling:     p.IsReducedPriceDwelling,
		AppraisedValueNIS:          p.AppraisedValueNIS,
		IsRefinance:                p.IsRefinance,
		PreviousPTIRatio:           p.PreviousPTIRatio,
		PreviousLTVRatio:           p.PreviousLTVRatio,
		PreviousVariableShareRatio: p.PreviousVariableShareRatio,
	}
	eval := c.evaluator.Evaluate(req)

	result := domain.FeasibilityResult{
		LTVRatio: eval.LTVRatio,
		LTVLimit: eval.LTVLimit,
		PTIRatio: eval.PTIRatio,
		PTILimit: eval.PTILimitApplied,
		Issues:   make([]domain.FeasibilityIssue, 0, len(eval.Violations)+1),
	}
	peak := eval.PTIRatioPeak
	result.PTIRatioPeak = &peak
	termLimit := c.limits.MaxTermYears
	result.LoanTermYears = &termYears
	result.LoanTermLimitYears = &termLimit
	limitPct := c.limits.VariableShareLimit * 100
	result.VariableShareLimitPct = &limitPct
	if p.VariableShareRatio != nil {
		sharePct := *p.VariableShareRatio * 100
		result.VariableSharePct = &sharePct
	}

	for _, v := range eval.Violations {
		result.Issues = append(result.Issues, domain.FeasibilityIssue{
			Code:    issueCode(v.Code),
			Message: v.Message,
			Details: v.Details,
		})
	}

	if p.BorrowerAge != nil && *p.BorrowerAge+termYears > c.limits.MaxAgeAtMaturity {
		result.Issues = append(result.Issues, domain.FeasibilityIssue{
			Code: domain.IssueAgeTermBeyondRetirement,
			Message: fmt.Sprintf("borrower would be %d at maturity, past the %d-year ceiling",
				*p.BorrowerAge+termYears, c.limits.MaxAgeAtMaturity),
			Details: map[string]interface{}{
				"borrower_age":        *p.BorrowerAge,
				"loan_term_years":     termYears,
				"max_age_at_maturity": c.limits.MaxAgeAtMaturity,
			},
		})
	}

	result.IsFeasible = len(result.Issues) == 0
	return result
}

// issueCode maps evaluator violation codes onto the public issue vocabulary.
// Codes without a dedicated issue (the refinance no-worsening family) surface
// as a generic regulatory violation.
func issueCode(code string) string {
	switch code {
	case eligibility.CodeEquityShortfall:
		return domain.IssueEquityShortfall
	case eligibility.CodePTIExceedsLimit:
		return domain.IssuePTIExceedsLimit
	case eligibility.CodeLTVExceedsLimit:
		return domain.IssueLTVExceedsLimit
	case eligibility.CodeVariableShareExceeds:
		return domain.IssueVariableShareExceedsLim
	case eligibility.CodeLoanTermExceedsLimit:
		return domain.IssueLoanTermExceedsLimit
	default:
		return domain.IssueRegulatoryViolation
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
