package domain

import (
	"errors"
	"fmt"
)

// BorrowerProfile carries the borrower-level inputs collected at intake.
type BorrowerProfile struct {
	PrimaryApplicantName  string          `json:"primary_applicant_name,omitempty"`
	CoApplicantNames      []string        `json:"co_applicant_names,omitempty"`
	Residency             ResidencyStatus `json:"residency,omitempty"`
	Occupancy             OccupancyIntent `json:"occupancy"`
	NetIncomeNIS          float64         `json:"net_income_nis"`
	AdditionalIncomeNIS   float64         `json:"additional_income_nis"`
	FixedExpensesNIS      float64         `json:"fixed_expenses_nis"`
	RentExpenseNIS        float64         `json:"rent_expense_nis"`
	OtherHousingNIS       float64         `json:"other_housing_payments_nis"`
	EmploymentStatus      string          `json:"employment_status,omitempty"`
	EmploymentTenureMonth int             `json:"employment_tenure_months"`
	HasRecentCreditIssues bool            `json:"has_recent_credit_issues"`
	AgeYears              int             `json:"age_years"`
	Dependents            int             `json:"dependents,omitempty"`
}

// PropertyDetails describes the property being financed.
type PropertyDetails struct {
	Type                   PropertyType `json:"type"`
	ValueNIS               float64      `json:"value_nis"`
	AddressCity            string       `json:"address_city,omitempty"`
	IsNewBuild             bool         `json:"is_new_build,omitempty"`
	IsReducedPriceDwelling bool         `json:"is_reduced_price_dwelling,omitempty"`
	AppraisalValueNIS      *float64     `json:"appraisal_value_nis,omitempty"`
}

// LoanAsk is the financing request.
type LoanAsk struct {
	AmountNIS                  float64  `json:"amount_nis"`
	TermYears                  int      `json:"term_years"`
	IsBridgeLoan               bool     `json:"is_bridge_loan,omitempty"`
	BridgeTermMonths           *int     `json:"bridge_term_months,omitempty"`
	AnyPurposeAmountNIS        *float64 `json:"any_purpose_amount_nis,omitempty"`
	IsRefinance                bool     `json:"is_refinance,omitempty"`
	PreviousPTIRatio           *float64 `json:"previous_pti_ratio,omitempty"`
	PreviousLTVRatio           *float64 `json:"previous_ltv_ratio,omitempty"`
	PreviousVariableShareRatio *float64 `json:"previous_variable_share_ratio,omitempty"`
}

// Preferences collects the qualitative sliders the planning mapper consumes.
// Sliders are 0-10; CPITolerance and PrimeExposurePreference are optional.
type Preferences struct {
	StabilityVsCost         int      `json:"stability_vs_cost"`
	CPITolerance            *int     `json:"cpi_tolerance,omitempty"`
	PrimeExposurePreference *int     `json:"prime_exposure_preference,omitempty"`
	MaxPaymentNIS           *float64 `json:"max_payment_nis,omitempty"`
	RedLinePaymentNIS       *float64 `json:"red_line_payment_nis,omitempty"`
	ExpectedPrepayPct       float64  `json:"expected_prepay_pct,omitempty"`
	ExpectedPrepayMonth     *int     `json:"expected_prepay_month,omitempty"`
	RateView                RateView `json:"rate_view,omitempty"`
}

// FuturePlan is a forward-looking event the borrower anticipates.
type FuturePlan struct {
	Category               string   `json:"category"`
	TimeframeMonths        *int     `json:"timeframe_months,omitempty"`
	ExpectedIncomeDeltaNIS float64  `json:"expected_income_delta_nis,omitempty"`
	Confidence             *float64 `json:"confidence,omitempty"`
	Notes                  string   `json:"notes,omitempty"`
}

// QuoteTrack is a borrower-specific quoted track from a bank.
type QuoteTrack struct {
	Track      Track      `json:"track"`
	RateAnchor RateAnchor `json:"rate_anchor"`
	MarginPct  float64    `json:"margin_pct"`
	BankName   string     `json:"bank_name,omitempty"`
}

// Quotes bundles quoted tracks.
type Quotes struct {
	Tracks []QuoteTrack `json:"tracks"`
}

// InterviewRecord is the confirmed structured output of the intake interview.
type InterviewRecord struct {
	Borrower    BorrowerProfile `json:"borrower"`
	Property    PropertyDetails `json:"property"`
	DealType    DealType        `json:"deal_type"`
	Loan        LoanAsk         `json:"loan"`
	Preferences Preferences     `json:"preferences"`
	FuturePlans []FuturePlan    `json:"future_plans,omitempty"`
	Quotes      *Quotes         `json:"quotes,omitempty"`
}

const minPaymentTargetNIS = 100.0

var (
	// ErrInvalidIntake wraps all intake invariant failures.
	ErrInvalidIntake = errors.New("invalid intake record")
)

// Normalize fills derivable fields: an empty deal type is inferred from
// occupancy and usage, and the property classification is aligned with the
// resolved deal type.
func (r *InterviewRecord) Normalize() {
	if r.DealType == "" {
		r.DealType = r.inferDealType()
	}
	if enforced, ok := DealToProperty[r.DealType]; ok && r.Property.Type != enforced {
		r.Property.Type = enforced
	}
}

func (r *InterviewRecord) inferDealType() DealType {
	switch {
	case r.Property.Type == PropertyReplacement:
		return DealReplacement
	case r.Borrower.Occupancy == OccupancyRent:
		return DealInvestment
	case r.Property.Type == PropertyInvestment && r.Borrower.Occupancy == OccupancyOwn:
		return DealFirstHome
	case r.Property.Type == PropertyInvestment:
		return DealInvestment
	default:
		return DealFirstHome
	}
}

// Validate enforces the intake invariants the downstream engine assumes:
// non-negative money amounts, age within [18,85], term within [1,30], and
// deal/occupancy agreement.
func (r *InterviewRecord) Validate() error {
	b := r.Borrower
	if b.NetIncomeNIS <= 0 {
		return fmt.Errorf("%w: net income must be positive", ErrInvalidIntake)
	}
	if b.AdditionalIncomeNIS < 0 || b.FixedExpensesNIS < 0 || b.RentExpenseNIS < 0 || b.OtherHousingNIS < 0 {
		return fmt.Errorf("%w: income and obligation amounts must be non-negative", ErrInvalidIntake)
	}
	if b.AgeYears != 0 && (b.AgeYears < 18 || b.AgeYears > 85) {
		return fmt.Errorf("%w: borrower age %d outside [18,85]", ErrInvalidIntake, b.AgeYears)
	}
	if r.Property.ValueNIS <= 0 {
		return fmt.Errorf("%w: property value must be positive", ErrInvalidIntake)
	}
	if r.Loan.AmountNIS <= 0 {
		return fmt.Errorf("%w: loan amount must be positive", ErrInvalidIntake)
	}
	if r.Loan.TermYears < 1 || r.Loan.TermYears > 30 {
		return fmt.Errorf("%w: loan term %d outside [1,30]", ErrInvalidIntake, r.Loan.TermYears)
	}
	if b.Occupancy == OccupancyOwn && r.DealType == DealInvestment {
		return fmt.Errorf("%w: owner-occupied deals cannot be classified as investment", ErrInvalidIntake)
	}
	if b.Occupancy == OccupancyRent && r.DealType == DealFirstHome {
		return fmt.Errorf("%w: deals marked first_home must be owner-occupied", ErrInvalidIntake)
	}
	return r.Preferences.validate()
}

func (p *Preferences) validate() error {
	if p.StabilityVsCost < 0 || p.StabilityVsCost > 10 {
		return fmt.Errorf("%w: stability_vs_cost slider outside [0,10]", ErrInvalidIntake)
	}
	if p.MaxPaymentNIS != nil && *p.MaxPaymentNIS < minPaymentTargetNIS {
		return fmt.Errorf("%w: max_payment_nis below %.0f NIS", ErrInvalidIntake, minPaymentTargetNIS)
	}
	if p.RedLinePaymentNIS != nil && *p.RedLinePaymentNIS < minPaymentTargetNIS {
		return fmt.Errorf("%w: red_line_payment_nis below %.0f NIS", ErrInvalidIntake, minPaymentTargetNIS)
	}
	if p.MaxPaymentNIS != nil && p.RedLinePaymentNIS != nil && *p.RedLinePaymentNIS < *p.MaxPaymentNIS {
		return fmt.Errorf("%w: red_line_payment_nis must be >= max_payment_nis", ErrInvalidIntake)
	}
	if p.ExpectedPrepayPct < 0 || p.ExpectedPrepayPct > 1 {
		return fmt.Errorf("%w: expected_prepay_pct outside [0,1]", ErrInvalidIntake)
	}
	return nil
}

// TotalMonthlyIncome is the borrower's combined monthly income.
func (b BorrowerProfile) TotalMonthlyIncome() float64 {
	return b.NetIncomeNIS + b.AdditionalIncomeNIS
}
