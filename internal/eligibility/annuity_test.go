package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyPayment_ZeroRate_IsStraightLine(t *testing.T) {
	payment := MonthlyPayment(360000, 0, 360)
	assert.InDelta(t, 1000.0, payment, 0.01)
}

func TestMonthlyPayment_KnownAnnuity(t *testing.T) {
	// 800,000 at 4% over 25 years is a touch above 4,200 a month.
	payment := MonthlyPayment(800000, 0.04, 300)
	assert.InDelta(t, 4223, payment, 5)
}

func TestMonthlyPayment_ZeroPrincipal(t *testing.T) {
	assert.Equal(t, 0.0, MonthlyPayment(0, 0.04, 300))
}

func TestMaxLoanForPayment_InvertsMonthlyPayment(t *testing.T) {
	for _, principal := range []float64{150000, 800000, 2400000} {
		payment := MonthlyPayment(principal, 0.045, 240)
		recovered := MaxLoanForPayment(payment, 0.045, 240)
		assert.InDelta(t, principal, recovered, 1.0, "principal %v", principal)
	}
}

func TestMaxLoanForPayment_ZeroRate(t *testing.T) {
	assert.InDelta(t, 300000, MaxLoanForPayment(1000, 0, 300), 0.01)
}
