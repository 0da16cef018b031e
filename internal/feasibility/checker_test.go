package feasibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/config"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	return NewChecker(config.DefaultLimits())
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCheck_ComfortableScenario_IsFeasible(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		PropertyType:     "single",
		Occupancy:        "own",
		LoanTermYears:    intPtr(25),
	})

	require.True(t, result.IsFeasible)
	assert.Empty(t, result.Issues)
	assert.InDelta(t, 0.75, result.LTVLimit, 0.001)
	require.NotNil(t, result.LoanTermLimitYears)
	assert.Equal(t, 30, *result.LoanTermLimitYears)
	require.NotNil(t, result.PTIRatioPeak)
	require.NotNil(t, result.VariableShareLimitPct)
	assert.InDelta(t, 66.667, *result.VariableShareLimitPct, 0.01)
	assert.Nil(t, result.VariableSharePct)
}

func TestCheck_ThinIncome_FlagsPTI(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{
		MonthlyNetIncome:     6000,
		PropertyPriceNIS:     1000000,
		DownPaymentNIS:       500000,
		ExistingLoansPayment: 1500,
		PropertyType:         "single",
		Occupancy:            "own",
		LoanTermYears:        intPtr(25),
	})

	require.False(t, result.IsFeasible)
	assert.True(t, result.HasIssue(domain.IssuePTIExceedsLimit))
}

func TestCheck_InvalidPrice_ShortCircuits(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{MonthlyNetIncome: 20000, PropertyPriceNIS: 0})

	require.False(t, result.IsFeasible)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, domain.IssueInvalidPropertyPrice, result.Issues[0].Code)
	assert.Equal(t, 1.0, result.LTVRatio)
	assert.Equal(t, 1.0, result.PTIRatio)
}

func TestCheck_HighLTV_FlagsEquityAndLTV(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{
		MonthlyNetIncome: 25000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   100000,
		PropertyType:     "single",
		Occupancy:        "own",
		LoanTermYears:    intPtr(25),
	})

	require.False(t, result.IsFeasible)
	assert.True(t, result.HasIssue(domain.IssueLTVExceedsLimit))
	assert.True(t, result.HasIssue(domain.IssueEquityShortfall))
}

func TestCheck_DealClassificationWinsOverProperty(t *testing.T) {
	c := newTestChecker(t)

	// A first-home deal on a unit recorded as investment still gets the
	// first-home 75% ceiling.
	result := c.Check(Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		PropertyType:     "investment",
		DealType:         "first_home",
		Occupancy:        "own",
		LoanTermYears:    intPtr(25),
	})

	assert.InDelta(t, 0.75, result.LTVLimit, 0.001)
	assert.True(t, result.IsFeasible)
}

func TestCheck_RentedFirstHome_CoercedToInvestment(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		DealType:         "first_home",
		Occupancy:        "rent",
		LoanTermYears:    intPtr(25),
	})

	// Coercion lands on the 50% investment ceiling, which 66.7% LTV breaks.
	assert.InDelta(t, 0.50, result.LTVLimit, 0.001)
	assert.True(t, result.HasIssue(domain.IssueLTVExceedsLimit))
}

func TestCheck_VariableShare_ReportsLimitPct(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{
		MonthlyNetIncome:   20000,
		PropertyPriceNIS:   1200000,
		DownPaymentNIS:     400000,
		PropertyType:       "single",
		Occupancy:          "own",
		LoanTermYears:      intPtr(25),
		VariableShareRatio: floatPtr(0.7),
	})

	require.False(t, result.IsFeasible)
	assert.True(t, result.HasIssue(domain.IssueVariableShareExceedsLim))
	require.NotNil(t, result.VariableSharePct)
	assert.InDelta(t, 70.0, *result.VariableSharePct, 0.01)
	require.NotNil(t, result.VariableShareLimitPct)
	assert.InDelta(t, 66.667, *result.VariableShareLimitPct, 0.01)
}

func TestCheck_TermBoundary(t *testing.T) {
	c := newTestChecker(t)

	base := Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		PropertyType:     "single",
		Occupancy:        "own",
	}

	base.LoanTermYears = intPtr(30)
	assert.False(t, c.Check(base).HasIssue(domain.IssueLoanTermExceedsLimit))

	base.LoanTermYears = intPtr(31)
	assert.True(t, c.Check(base).HasIssue(domain.IssueLoanTermExceedsLimit))
}

func TestCheck_AgeTermBeyondRetirement(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		PropertyType:     "single",
		Occupancy:        "own",
		LoanTermYears:    intPtr(30),
		BorrowerAge:      intPtr(60),
	})

	require.False(t, result.IsFeasible)
	assert.True(t, result.HasIssue(domain.IssueAgeTermBeyondRetirement))

	// Age 55 with the same term matures exactly at 85 and passes.
	ok := c.Check(Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		PropertyType:     "single",
		Occupancy:        "own",
		LoanTermYears:    intPtr(30),
		BorrowerAge:      intPtr(55),
	})
	assert.False(t, ok.HasIssue(domain.IssueAgeTermBeyondRetirement))
}

func TestCheck_AssessedPaymentOverride(t *testing.T) {
	c := newTestChecker(t)

	base := Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		PropertyType:     "single",
		Occupancy:        "own",
		LoanTermYears:    intPtr(25),
	}

	affordable := base
	affordable.AssessedMonthlyPayment = floatPtr(5000)
	assert.True(t, c.Check(affordable).IsFeasible)

	crushing := base
	crushing.AssessedMonthlyPayment = floatPtr(15000)
	result := c.Check(crushing)
	require.False(t, result.IsFeasible)
	assert.True(t, result.HasIssue(domain.IssuePTIExceedsLimit))
}

func TestCheck_RefinanceWorsening_MapsToRegulatoryViolation(t *testing.T) {
	c := newTestChecker(t)

	result := c.Check(Params{
		MonthlyNetIncome: 20000,
		PropertyPriceNIS: 1200000,
		DownPaymentNIS:   400000,
		PropertyType:     "single",
		Occupancy:        "own",
		LoanTermYears:    intPtr(25),
		IsRefinance:      true,
		PreviousPTIRatio: floatPtr(0.05),
	})

	require.False(t, result.IsFeasible)
	assert.True(t, result.HasIssue(domain.IssueRegulatoryViolation))
}

func TestCheck_MoreDownPaymentNeverHurts(t *testing.T) {
	c := newTestChecker(t)

	issuesAt := func(down float64) int {
		result := c.Check(Params{
			MonthlyNetIncome: 15000,
			PropertyPriceNIS: 1200000,
			DownPaymentNIS:   down,
			PropertyType:     "single",
			Occupancy:        "own",
			LoanTermYears:    intPtr(25),
		})
		return len(result.Issues)
	}

	prev := issuesAt(100000)
	for _, down := range []float64{200000, 300000, 400000, 600000} {
		current := issuesAt(down)
		assert.LessOrEqual(t, current, prev, "down payment %v", down)
		prev = current
	}
}
