package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/eligibility"
)

// eligibilityInput is the JSON shape of a full evaluation request.
type eligibilityInput struct {
	MonthlyNetIncome     float64 `json:"monthly_net_income"`
	PropertyPrice        float64 `json:"property_price_nis"`
	DownPaymentAvailable float64 `json:"down_payment_nis"`
	PropertyType         string  `json:"property_type,omitempty"`
	DealType             string  `json:"deal_type,omitempty"`
	Occupancy            string  `json:"occupancy,omitempty"`
	RiskProfile          string  `json:"risk_profile,omitempty"`
	ExistingLoansPayment float64 `json:"existing_loans_payment,omitempty"`
	OtherHousingPayments float64 `json:"other_housing_payments,omitempty"`
	BorrowerRentExpense  float64 `json:"borrower_rent_expense,omitempty"`
	LoanTermYears        int     `json:"loan_term_years"`

	MonthlyPaymentOverride *float64 `json:"monthly_payment_override,omitempty"`
	PeakPaymentOverride    *float64 `json:"peak_payment_override,omitempty"`
	VariableShareRatio     *float64 `json:"variable_share_ratio,omitempty"`

	IsBridgeLoan        bool     `json:"is_bridge_loan,omitempty"`
	BridgeTermMonths    *int     `json:"bridge_term_months,omitempty"`
	AnyPurposeAmountNIS *float64 `json:"any_purpose_amount_nis,omitempty"`

	IsReducedPriceDwelling bool     `json:"is_reduced_price_dwelling,omitempty"`
	AppraisedValueNIS      *float64 `json:"appraised_value_nis,omitempty"`

	IsRefinance                bool     `json:"is_refinance,omitempty"`
	PreviousPTIRatio           *float64 `json:"previous_pti_ratio,omitempty"`
	PreviousLTVRatio           *float64 `json:"previous_ltv_ratio,omitempty"`
	PreviousVariableShareRatio *float64 `json:"previous_variable_share_ratio,omitempty"`
}

func (in eligibilityInput) toRequest() eligibility.Request {
	property := domain.ParsePropertyType(in.PropertyType)
	deal := domain.ParseDealType(in.DealType, property)
	occupancy := domain.ParseOccupancy(in.Occupancy)
	deal = domain.ReconcileDealOccupancy(deal, occupancy)

	term := in.LoanTermYears
	if term <= 0 {
		term = 25
	}

	return eligibility.Request{
		MonthlyNetIncome:           in.MonthlyNetIncome,
		PropertyPrice:              in.PropertyPrice,
		DownPaymentAvailable:       in.DownPaymentAvailable,
		PropertyType:               property,
		DealType:                   deal,
		Occupancy:                  occupancy,
		RiskProfile:                domain.ParseRiskProfile(in.RiskProfile),
		ExistingLoansPayment:       in.ExistingLoansPayment,
		OtherHousingPayments:       in.OtherHousingPayments,
		BorrowerRentExpense:        in.BorrowerRentExpense,
		LoanTermYears:              term,
		MonthlyPaymentOverride:     in.MonthlyPaymentOverride,
		PeakPaymentOverride:        in.PeakPaymentOverride,
		VariableShareRatio:         in.VariableShareRatio,
		IsBridgeLoan:               in.IsBridgeLoan,
		BridgeTermMonths:           in.BridgeTermMonths,
		AnyPurposeAmountNIS:        in.AnyPurposeAmountNIS,
		IsReducedPriceDwelling:     in.IsReducedPriceDwelling,
		AppraisedValueNIS:          in.AppraisedValueNIS,
		IsRefinance:                in.IsRefinance,
		PreviousPTIRatio:           in.PreviousPTIRatio,
		PreviousLTVRatio:           in.PreviousLTVRatio,
		PreviousVariableShareRatio: in.PreviousVariableShareRatio,
	}
}

func runEligibility(cmd *cobra.Command, args []string) error {
	var input eligibilityInput
	if err := readInput(args, &input); err != nil {
		return err
	}

	limits, err := loadLimits(cmd)
	if err != nil {
		return err
	}

	evaluator := eligibility.NewEvaluator(limits)
	req := input.toRequest()
	result := evaluator.Evaluate(req)

	codes := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		codes = append(codes, v.Code)
	}
	metrics.RecordEvaluation(codes)

	log.Info().Bool("eligible", result.IsEligible).
		Float64("max_loan", result.MaxLoanAmount).
		Int("violations", len(result.Violations)).
		Msg("eligibility evaluation complete")

	withAdjustments, _ := cmd.Flags().GetBool("adjustments")
	if withAdjustments {
		output := struct {
			Result      eligibility.Result      `json:"result"`
			Adjustments eligibility.Adjustments `json:"adjustments"`
		}{
			Result:      result,
			Adjustments: evaluator.AdjustmentsToQualify(req),
		}
		archiveSnapshot(cmd, "eligibility", input, output)
		return writeJSON(output)
	}

	archiveSnapshot(cmd, "eligibility", input, result)
	return writeJSON(result)
}
