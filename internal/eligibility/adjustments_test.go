package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustmentsToQualify_AlreadyEligible(t *testing.T) {
	ev := newTestEvaluator(t)

	adj := ev.AdjustmentsToQualify(baseRequest())

	assert.True(t, adj.QualifiesWithoutAdjusting)
	assert.Zero(t, adj.AdditionalDownPaymentNIS)
	assert.Nil(t, adj.AdditionalIncomeNIS)
}

func TestAdjustmentsToQualify_EquityGap(t *testing.T) {
	ev := newTestEvaluator(t)

	req := baseRequest()
	req.DownPaymentAvailable = 250000
	adj := ev.AdjustmentsToQualify(req)

	require.False(t, adj.QualifiesWithoutAdjusting)
	// The LTV ceiling requires 25% down on 1.2M.
	assert.InDelta(t, 50000, adj.AdditionalDownPaymentNIS, 1)

	// A price cut can close the gap on its own; the sweep should find the
	// first qualifying step.
	require.NotEmpty(t, adj.PriceAdjustments)
	assert.Equal(t, 0.0, adj.PriceAdjustments[0].PriceReductionNIS)
	var anyQualifies bool
	for _, pa := range adj.PriceAdjustments {
		if pa.Qualifies {
			anyQualifies = true
		}
	}
	assert.True(t, anyQualifies)
}

func TestAdjustmentsToQualify_IncomeSweep(t *testing.T) {
	ev := newTestEvaluator(t)

	// PTI-bound scenario: plenty of equity, thin income.
	req := baseRequest()
	req.MonthlyNetIncome = 9000
	req.DownPaymentAvailable = 400000
	req.RiskProfile = "conservative"

	base := ev.Evaluate(req)
	require.False(t, base.IsEligible)

	adj := ev.AdjustmentsToQualify(req)
	require.NotNil(t, adj.AdditionalIncomeNIS)
	assert.GreaterOrEqual(t, *adj.AdditionalIncomeNIS, 0.0)
	assert.LessOrEqual(t, *adj.AdditionalIncomeNIS, 20000.0)

	// The sweep runs at the standard preset, so the found income must
	// actually qualify there.
	verify := req
	verify.MonthlyNetIncome += *adj.AdditionalIncomeNIS
	verify.RiskProfile = "standard"
	assert.True(t, ev.Evaluate(verify).IsEligible)
}
