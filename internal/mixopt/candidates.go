package mixopt

import (
	"math"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

// Candidate labels. Stable identifiers callers can key presentation off.
const (
	LabelAllFixed       = "all_fixed"
	LabelBalancedThirds = "balanced_thirds"
	LabelFixedPrimeHalf = "fixed_prime_half"
	LabelTailored       = "tailored"
)

type basket struct {
	label  string
	shares domain.TrackShares
}

// uniformBaskets are the fixed candidate set every run starts from: the
// safest possible mix, the classic thirds split, and a fixed/prime blend.
func uniformBaskets() []basket {
	return []basket{
		{
			label:  LabelAllFixed,
			shares: domain.TrackShares{FixedUnindexed: 1.0},
		},
		{
			label: LabelBalancedThirds,
			shares: domain.TrackShares{
				FixedUnindexed: 1.0 / 3.0,
				VariablePrime:  1.0 / 3.0,
				VariableCPI:    1.0 / 3.0,
			},
		},
		{
			label: LabelFixedPrimeHalf,
			shares: domain.TrackShares{
				FixedUnindexed: 0.5,
				VariablePrime:  0.5,
			},
		},
	}
}

// tailoredShares shapes a mix from the planning soft caps: spend the variable
// budget between prime and CPI-variable, then split the fixed remainder so
// total CPI exposure respects the CPI ceiling.
func tailoredShares(caps domain.SoftCaps) domain.TrackShares {
	variableBudget := caps.VariableShareMax

	variableCPI := variableBudget * 0.5
	if caps.CPIShareMax != nil {
		variableCPI = math.Min(variableBudget, *caps.CPIShareMax*0.5)
	}
	variablePrime := variableBudget - variableCPI

	fixedRemaining := 1.0 - variableBudget
	fixedCPI := fixedRemaining * 0.25
	if caps.CPIShareMax != nil {
		fixedCPI = math.Min(*caps.CPIShareMax-variableCPI, fixedCPI)
		if fixedCPI < 0 {
			fixedCPI = 0
		}
	}
	fixedUnindexed := fixedRemaining - fixedCPI

	return domain.TrackShares{
		FixedUnindexed: fixedUnindexed,
		FixedCPI:       fixedCPI,
		VariablePrime:  variablePrime,
		VariableCPI:    variableCPI,
	}.Normalized()
}
