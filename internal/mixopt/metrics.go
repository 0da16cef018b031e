package mixopt

import (
	"fmt"
	"math"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/eligibility"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/rates"
)

// Scenario rate shocks, applied to every floating or CPI-linked track. Fall
// and rise are deliberately asymmetric: rate spikes are the risk being
// stressed, not rate relief.
const (
	shockFall = -0.01
	shockFlat = 0.0
	shockRise = 0.02
)

// shockedTracks are the tracks a scenario shock moves. Fixed-unindexed is the
// only track immune to both rate resets and CPI drift.
var shockedTracks = map[domain.Track]bool{
	domain.TrackVariablePrime: true,
	domain.TrackVariableCPI:   true,
	domain.TrackFixedCPI:      true,
}

// primeSensitivities are the standalone prime-spike stress points.
var primeSensitivities = []struct {
	name  string
	shock float64
}{
	{"prime_+1pct", 0.01},
	{"prime_+2pct", 0.02},
	{"prime_+3pct", 0.03},
}

const cpiPathSensitivity = 0.02

// prepayment-fee exposure tiers, keyed off the fixed-rate share: early exit
// fees bite hardest on fixed tracks.
const (
	prepayHighThreshold   = 0.6
	prepayMediumThreshold = 0.3
)

// basePayment sums the per-track annuity payments at the resolved rates.
func basePayment(amount float64, shares domain.TrackShares, table *rates.Table, months int) float64 {
	total := 0.0
	for _, track := range domain.MixTracks {
		share := shares.Share(track)
		if share <= 0 {
			continue
		}
		total += eligibility.MonthlyPayment(amount*share, table.Rate(track), months)
	}
	return total
}

// shockedPayment reprices the mix with a uniform shock applied to the listed
// tracks.
func shockedPayment(amount float64, shares domain.TrackShares, table *rates.Table, months int, shock float64, affected map[domain.Track]bool) float64 {
	total := 0.0
	for _, track := range domain.MixTracks {
		share := shares.Share(track)
		if share <= 0 {
			continue
		}
		rate := table.Rate(track)
		if affected[track] {
			rate = math.Max(rate+shock, 0)
		}
		total += eligibility.MonthlyPayment(amount*share, rate, months)
	}
	return total
}

// expectedWeightedPayment is the probability-weighted payment across the
// fall/flat/rise scenarios.
func expectedWeightedPayment(amount float64, shares domain.TrackShares, table *rates.Table, months int, weights domain.ScenarioWeights) (expected float64, byScenario map[string]float64) {
	byScenario = map[string]float64{
		"fall": shockedPayment(amount, shares, table, months, shockFall, shockedTracks),
		"flat": shockedPayment(amount, shares, table, months, shockFlat, shockedTracks),
		"rise": shockedPayment(amount, shares, table, months, shockRise, shockedTracks),
	}
	expected = weights.Fall*byScenario["fall"] + weights.Flat*byScenario["flat"] + weights.Rise*byScenario["rise"]
	return expected, byScenario
}

// sensitivityBattery reprices the mix under each fixed stress point.
func sensitivityBattery(amount float64, shares domain.TrackShares, table *rates.Table, months int) []domain.PaymentSensitivity {
	out := make([]domain.PaymentSensitivity, 0, len(primeSensitivities)+1)
	primeOnly := map[domain.Track]bool{domain.TrackVariablePrime: true}
	for _, s := range primeSensitivities {
		out = append(out, domain.PaymentSensitivity{
			Scenario:   s.name,
			PaymentNIS: shockedPayment(amount, shares, table, months, s.shock, primeOnly),
		})
	}
	cpiTracks := map[domain.Track]bool{domain.TrackFixedCPI: true, domain.TrackVariableCPI: true}
	out = append(out, domain.PaymentSensitivity{
		Scenario:   "cpi_path_+2pct",
		PaymentNIS: shockedPayment(amount, shares, table, months, cpiPathSensitivity, cpiTracks),
	})
	return out
}

// amortize runs a month-by-month simulation of the mix at its blended rate,
// applying any scheduled prepayments as a fraction of the remaining balance.
// Returns total interest and total paid to retirement.
func amortize(amount float64, annualRate float64, months int, schedule []domain.PrepaymentEvent) (totalInterest, totalPaid float64) {
	if amount <= 0 || months <= 0 {
		return 0, 0
	}
	prepayAt := make(map[int]float64, len(schedule))
	for _, ev := range schedule {
		if ev.Month > 0 && ev.PctOfBalance > 0 {
			prepayAt[ev.Month] += math.Min(ev.PctOfBalance, 1)
		}
	}

	monthlyRate := math.Max(annualRate, 0) / 12
	balance := amount
	payment := eligibility.MonthlyPayment(amount, annualRate, months)

	for month := 1; month <= months && balance > 0.01; month++ {
		interest := balance * monthlyRate
		principal := payment - interest
		if principal > balance {
			principal = balance
		}
		paid := interest + principal
		balance -= principal

		// The level payment is kept after a prepayment; the loan simply
		// retires early.
		if pct, ok := prepayAt[month]; ok && balance > 0 {
			prepay := balance * pct
			balance -= prepay
			paid += prepay
		}

		totalInterest += interest
		totalPaid += paid
	}
	return totalInterest, totalPaid
}

func prepayExposure(shares domain.TrackShares) domain.PrepaymentExposure {
	switch fixed := shares.FixedShare(); {
	case fixed >= prepayHighThreshold:
		return domain.PrepayExposureHigh
	case fixed >= prepayMediumThreshold:
		return domain.PrepayExposureMedium
	default:
		return domain.PrepayExposureLow
	}
}

// trackDetails renders the per-track breakdown the way Israeli quotes are
// written: prime tracks as a margin off P, five-year resets as a margin off
// the matching government curve, fixed tracks as a flat percentage.
func trackDetails(amount float64, shares domain.TrackShares, table *rates.Table) []domain.TrackDetail {
	details := make([]domain.TrackDetail, 0, 4)
	for _, track := range domain.MixTracks {
		share := shares.Share(track)
		if share <= 0 {
			continue
		}
		rate := table.Rate(track)
		detail := domain.TrackDetail{
			Track:     track,
			AmountNIS: amount * share,
		}
		switch track {
		case domain.TrackVariablePrime:
			anchor := rates.DefaultAnchorRates[domain.AnchorPrime] * 100
			detail.AnchorRatePct = &anchor
			detail.RateDisplay = fmt.Sprintf("P%+.2f%%", rate*100-anchor)
			detail.Indexation = "none"
			detail.ResetNote = "resets with Bank of Israel prime"
		case domain.TrackVariableCPI:
			anchor := rates.DefaultAnchorRates[domain.AnchorGov5Y] * 100
			detail.AnchorRatePct = &anchor
			detail.RateDisplay = fmt.Sprintf("Gov5y%+.2f%%", rate*100-anchor)
			detail.Indexation = "cpi"
			detail.ResetNote = "resets every 5 years"
		case domain.TrackFixedCPI:
			detail.RateDisplay = fmt.Sprintf("%.2f%%", rate*100)
			detail.Indexation = "cpi"
			detail.ResetNote = "fixed to maturity, principal CPI-indexed"
		default:
			detail.RateDisplay = fmt.Sprintf("%.2f%%", rate*100)
			detail.Indexation = "none"
			detail.ResetNote = "fixed to maturity"
		}
		details = append(details, detail)
	}
	return details
}
