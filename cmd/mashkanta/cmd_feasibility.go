package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/feasibility"
)

// feasibilityInput is the loose JSON shape of a feasibility probe.
type feasibilityInput struct {
	MonthlyNetIncome     float64  `json:"monthly_net_income"`
	PropertyPriceNIS     float64  `json:"property_price_nis"`
	DownPaymentNIS       float64  `json:"down_payment_nis"`
	PropertyType         string   `json:"property_type,omitempty"`
	DealType             string   `json:"deal_type,omitempty"`
	Occupancy            string   `json:"occupancy,omitempty"`
	RiskProfile          string   `json:"risk_profile,omitempty"`
	ExistingLoansPayment float64  `json:"existing_loans_payment,omitempty"`
	OtherHousingPayments float64  `json:"other_housing_payments,omitempty"`
	BorrowerRentExpense  float64  `json:"borrower_rent_expense,omitempty"`
	LoanTermYears        *int     `json:"loan_term_years,omitempty"`
	BorrowerAge          *int     `json:"borrower_age,omitempty"`
	AssessedPayment      *float64 `json:"assessed_monthly_payment,omitempty"`
	PeakPayment          *float64 `json:"peak_monthly_payment,omitempty"`
	VariableShareRatio   *float64 `json:"variable_share_ratio,omitempty"`

	IsBridgeLoan        bool     `json:"is_bridge_loan,omitempty"`
	BridgeTermMonths    *int     `json:"bridge_term_months,omitempty"`
	AnyPurposeAmountNIS *float64 `json:"any_purpose_amount_nis,omitempty"`

	IsReducedPriceDwelling bool     `json:"is_reduced_price_dwelling,omitempty"`
	AppraisedValueNIS      *float64 `json:"appraised_value_nis,omitempty"`
}

func runFeasibility(cmd *cobra.Command, args []string) error {
	var input feasibilityInput
	if err := readInput(args, &input); err != nil {
		return err
	}

	limits, err := loadLimits(cmd)
	if err != nil {
		return err
	}

	checker := feasibility.NewChecker(limits)
	result := checker.Check(feasibility.Params{
		MonthlyNetIncome:       input.MonthlyNetIncome,
		PropertyPriceNIS:       input.PropertyPriceNIS,
		DownPaymentNIS:         input.DownPaymentNIS,
		PropertyType:           input.PropertyType,
		DealType:               input.DealType,
		Occupancy:              input.Occupancy,
		RiskProfile:            input.RiskProfile,
		ExistingLoansPayment:   input.ExistingLoansPayment,
		OtherHousingPayments:   input.OtherHousingPayments,
		BorrowerRentExpense:    input.BorrowerRentExpense,
		LoanTermYears:          input.LoanTermYears,
		BorrowerAge:            input.BorrowerAge,
		AssessedMonthlyPayment: input.AssessedPayment,
		PeakMonthlyPayment:     input.PeakPayment,
		VariableShareRatio:     input.VariableShareRatio,
		IsBridgeLoan:           input.IsBridgeLoan,
		BridgeTermMonths:       input.BridgeTermMonths,
		AnyPurposeAmountNIS:    input.AnyPurposeAmountNIS,
		IsReducedPriceDwelling: input.IsReducedPriceDwelling,
		AppraisedValueNIS:      input.AppraisedValueNIS,
	})

	metrics.RecordFeasibility(result.IsFeasible)
	log.Info().Bool("feasible", result.IsFeasible).Int("issues", len(result.Issues)).
		Msg("feasibility check complete")

	archiveSnapshot(cmd, "feasibility", input, result)
	return writeJSON(result)
}
