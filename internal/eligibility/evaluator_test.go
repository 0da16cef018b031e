package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/config"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return NewEvaluator(config.DefaultLimits())
}

func baseRequest() Request {
	return Request{
		MonthlyNetIncome:     20000,
		PropertyPrice:        1200000,
		DownPaymentAvailable: 400000,
		PropertyType:         domain.PropertySingle,
		DealType:             domain.DealFirstHome,
		Occupancy:            domain.OccupancyOwn,
		RiskProfile:          domain.RiskStandard,
		LoanTermYears:        25,
	}
}

func hasViolation(result Result, code string) bool {
	for _, v := range result.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func TestEvaluate_ComfortableFirstHome_IsEligible(t *testing.T) {
	ev := newTestEvaluator(t)

	result := ev.Evaluate(baseRequest())

	require.True(t, result.IsEligible)
	assert.Empty(t, result.Violations)

	// Max loan is LTV-bound: 75% of 1.2M.
	assert.InDelta(t, 900000, result.MaxLoanAmount, 1)
	assert.InDelta(t, 300000, result.RequiredDownPayment, 1)
	assert.InDelta(t, 0.35, result.PTILimitApplied, 0.001)
	assert.InDelta(t, 800000.0/1200000.0, result.LTVRatio, 0.001)
	assert.Less(t, result.PTIRatio, 0.35)
}

func TestEvaluate_RentDeduction_AppliesOnlyToRenters(t *testing.T) {
	ev := newTestEvaluator(t)

	owner := baseRequest()
	owner.BorrowerRentExpense = 4000
	ownerResult := ev.Evaluate(owner)

	renter := baseRequest()
	renter.BorrowerRentExpense = 4000
	renter.Occupancy = domain.OccupancyRent
	renter.DealType = domain.DealInvestment
	renter.PropertyType = domain.PropertyInvestment
	renterResult := ev.Evaluate(renter)

	// The owner keeps full income; the renter's disposable income drops.
	assert.Less(t, ownerResult.PTIRatio, renterResult.PTIRatio)
	assert.Greater(t, ownerResult.MonthlyPaymentCapacity, renterResult.MonthlyPaymentCapacity)
}

func TestEvaluate_OtherHousingPayments_ReduceCapacity(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	req.OtherHousingPayments = 3000
	result := ev.Evaluate(req)

	clean := ev.Evaluate(baseRequest())
	assert.InDelta(t, clean.MonthlyPaymentCapacity-3000, result.MonthlyPaymentCapacity, 0.01)
	assert.Greater(t, result.PTIRatio, clean.PTIRatio)
}

func TestEvaluate_ThinIncome_FlagsPTIAndEquity(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	req.MonthlyNetIncome = 6000
	req.PropertyPrice = 1000000
	req.DownPaymentAvailable = 500000
	req.ExistingLoansPayment = 1500

	result := ev.Evaluate(req)

	require.False(t, result.IsEligible)
	assert.True(t, hasViolation(result, CodePTIExceedsLimit))
	assert.True(t, hasViolation(result, CodeEquityShortfall))
}

func TestEvaluate_PTIWarningBand(t *testing.T) {
	ev := newTestEvaluator(t)

	// Aggressive preset caps at 40%; push PTI into the 40-50% band.
	req := baseRequest()
	req.RiskProfile = domain.RiskAggressive
	req.MonthlyNetIncome = 9500
	result := ev.Evaluate(req)

	require.Greater(t, result.PTIRatio, 0.40)
	require.LessOrEqual(t, result.PTIRatio, 0.50)
	assert.True(t, hasViolation(result, CodePTIExceedsLimit))
	assert.NotEmpty(t, result.Warnings)
}

func TestEvaluate_HighLTV_FlagsViolation(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	req.DownPaymentAvailable = 100000
	result := ev.Evaluate(req)

	require.False(t, result.IsEligible)
	assert.True(t, hasViolation(result, CodeLTVExceedsLimit))
	assert.InDelta(t, 1100000.0/1200000.0, result.LTVRatio, 0.001)
}

func TestEvaluate_InvestmentDeal_UsesTighterLTV(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	req.DealType = domain.DealInvestment
	req.PropertyType = domain.PropertyInvestment
	req.Occupancy = domain.OccupancyRent
	result := ev.Evaluate(req)

	// 800k loan over 1.2M value is 66.7%, past the 50% investment ceiling.
	assert.InDelta(t, 0.50, result.LTVLimit, 0.001)
	assert.True(t, hasViolation(result, CodeLTVExceedsLimit))
}

func TestEvaluate_VariableShare(t *testing.T) {
	ev := newTestEvaluator(t)

	within := baseRequest()
	share := 0.6
	within.VariableShareRatio = &share
	assert.False(t, hasViolation(ev.Evaluate(within), CodeVariableShareExceeds))

	over := baseRequest()
	overShare := 0.7
	over.VariableShareRatio = &overShare
	assert.True(t, hasViolation(ev.Evaluate(over), CodeVariableShareExceeds))
}

func TestEvaluate_BridgeLoanException(t *testing.T) {
	ev := newTestEvaluator(t)
	share := 1.0

	req := baseRequest()
	req.VariableShareRatio = &share
	req.IsBridgeLoan = true
	months := 36
	req.BridgeTermMonths = &months

	result := ev.Evaluate(req)
	assert.False(t, hasViolation(result, CodeVariableShareExceeds))
	assert.Contains(t, result.AppliedExceptions, "bridge_loan_exception_under_36_months")

	// One month past the cutoff loses the exception.
	tooLong := 37
	req.BridgeTermMonths = &tooLong
	result = ev.Evaluate(req)
	assert.True(t, hasViolation(result, CodeVariableShareExceeds))
	assert.Empty(t, result.AppliedExceptions)
}

func TestEvaluate_AnyPurposeException(t *testing.T) {
	ev := newTestEvaluator(t)
	share := 0.8

	req := baseRequest()
	req.VariableShareRatio = &share
	amount := 120000.0
	req.AnyPurposeAmountNIS = &amount

	result := ev.Evaluate(req)
	assert.False(t, hasViolation(result, CodeVariableShareExceeds))
	assert.Contains(t, result.AppliedExceptions, "any_purpose_loan_exception_under_120k_nis")

	overAmount := 120001.0
	req.AnyPurposeAmountNIS = &overAmount
	assert.True(t, hasViolation(ev.Evaluate(req), CodeVariableShareExceeds))
}

func TestEvaluate_ExceptionsNotRecordedUnderCap(t *testing.T) {
	ev := newTestEvaluator(t)

	// Share under the cap needs no exception even when one would apply.
	req := baseRequest()
	share := 0.5
	req.VariableShareRatio = &share
	req.IsBridgeLoan = true
	months := 12
	req.BridgeTermMonths = &months

	result := ev.Evaluate(req)
	assert.Empty(t, result.AppliedExceptions)
}

func TestEvaluate_LoanTermBoundary(t *testing.T) {
	ev := newTestEvaluator(t)

	at := baseRequest()
	at.LoanTermYears = 30
	assert.False(t, hasViolation(ev.Evaluate(at), CodeLoanTermExceedsLimit))

	over := baseRequest()
	over.LoanTermYears = 31
	assert.True(t, hasViolation(ev.Evaluate(over), CodeLoanTermExceedsLimit))
}

func TestEvaluate_BuyerPriceAppraisalBasis(t *testing.T) {
	ev := newTestEvaluator(t)

	// Appraisal under the cap replaces the purchase price as the LTV basis.
	lowAppraisal := baseRequest()
	lowAppraisal.IsReducedPriceDwelling = true
	low := 1700000.0
	lowAppraisal.AppraisedValueNIS = &low
	result := ev.Evaluate(lowAppraisal)
	assert.InDelta(t, 1700000, result.LTVValueBasis, 1)

	// Appraisal over the cap: basis is max(cap, price).
	highAppraisal := baseRequest()
	highAppraisal.PropertyPrice = 2000000
	highAppraisal.DownPaymentAvailable = 600000
	highAppraisal.IsReducedPriceDwelling = true
	high := 2500000.0
	highAppraisal.AppraisedValueNIS = &high
	result = ev.Evaluate(highAppraisal)
	assert.InDelta(t, 2000000, result.LTVValueBasis, 1)

	// Cheap buyer-price unit with a high appraisal keeps at least the cap.
	cheap := baseRequest()
	cheap.PropertyPrice = 1500000
	cheap.DownPaymentAvailable = 500000
	cheap.IsReducedPriceDwelling = true
	cheap.AppraisedValueNIS = &high
	result = ev.Evaluate(cheap)
	assert.InDelta(t, 1800000, result.LTVValueBasis, 1)
}

func TestEvaluate_RefinanceNoWorsening(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	req.IsRefinance = true
	prevPTI := 0.10
	prevLTV := 0.50
	req.PreviousPTIRatio = &prevPTI
	req.PreviousLTVRatio = &prevLTV

	result := ev.Evaluate(req)
	require.False(t, result.IsEligible)
	assert.True(t, hasViolation(result, CodeRefinancePTIWorsened))
	assert.True(t, hasViolation(result, CodeRefinanceLTVWorsened))

	// A refinance that improves both ratios passes.
	improving := baseRequest()
	improving.IsRefinance = true
	betterPTI := 0.45
	betterLTV := 0.80
	improving.PreviousPTIRatio = &betterPTI
	improving.PreviousLTVRatio = &betterLTV
	assert.True(t, ev.Evaluate(improving).IsEligible)
}

func TestEvaluate_PaymentOverride_ScalesMaxLoan(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	override := 5000.0
	req.MonthlyPaymentOverride = &override
	result := ev.Evaluate(req)

	assert.InDelta(t, 5000, result.AssessedMonthlyPayment, 0.01)
	// Affordable payment is 7000; scaling 800k by 7000/5000 clears 900k, so
	// the LTV ceiling still binds.
	assert.InDelta(t, 900000, result.MaxLoanAmount, 1)
	require.True(t, result.IsEligible)

	heavy := baseRequest()
	heavyOverride := 15000.0
	heavy.MonthlyPaymentOverride = &heavyOverride
	heavyResult := ev.Evaluate(heavy)

	// 800k scaled by 7000/15000 leaves a large equity gap and a PTI breach.
	assert.InDelta(t, 800000*7000.0/15000.0, heavyResult.MaxLoanAmount, 1)
	assert.True(t, hasViolation(heavyResult, CodePTIExceedsLimit))
	assert.True(t, hasViolation(heavyResult, CodeEquityShortfall))
}

func TestEvaluate_PeakPaymentOverride_RaisesPeakPTIOnly(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	peak := 9000.0
	req.PeakPaymentOverride = &peak
	result := ev.Evaluate(req)

	assert.InDelta(t, 9000.0/20000.0, result.PTIRatioPeak, 0.001)
	assert.Less(t, result.PTIRatio, result.PTIRatioPeak)
}
