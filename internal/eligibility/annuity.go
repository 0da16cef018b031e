package eligibility

import "math"

// Standard Spitzer amortization math shared by the evaluator and optimizer.

// MonthlyPayment converts principal to a level monthly payment for the given
// annual rate and number of months. A zero rate degrades to straight-line
// principal repayment.
func MonthlyPayment(principal float64, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	monthlyRate := math.Max(annualRate, 0) / 12
	if monthlyRate <= 0 {
		return principal / float64(months)
	}
	compound := math.Pow(1+monthlyRate, float64(months))
	factor := monthlyRate * compound / (compound - 1)
	return principal * factor
}

// MaxLoanForPayment inverts the annuity formula: the largest principal a
// level monthly payment can service over the given term.
func MaxLoanForPayment(payment float64, annualRate float64, months int) float64 {
	if months <= 0 || payment <= 0 {
		return 0
	}
	monthlyRate := math.Max(annualRate, 0) / 12
	if monthlyRate <= 0 {
		return payment * float64(months)
	}
	return payment * (1 - math.Pow(1+monthlyRate, -float64(months))) / monthlyRate
}
