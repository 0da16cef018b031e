// Package mixopt builds candidate principal splits across mortgage rate
// tracks, prices each under base, scenario, and stress conditions, and ranks
// them against the borrower's derived preference weights. The optimizer is a
// pure computation: every run is deterministic for the same inputs.
package mixopt

import (
	"fmt"
	"math"
	"sort"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/config"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/feasibility"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/rates"
)

const shareEpsilon = 1e-6

// alternateTermYears are the sweep points shown alongside the requested term.
var alternateTermYears = []int{15, 20, 25}

const (
	sweepTermMin = 5
	sweepTermMax = 30
)

// LoanInput carries the priced side of an optimization run: the loan being
// shaped plus the borrower numbers feasibility re-checks need.
type LoanInput struct {
	AmountNIS        float64
	TermYears        int
	PropertyValueNIS float64
	DownPaymentNIS   float64

	MonthlyNetIncome     float64
	ExistingLoansPayment float64
	OtherHousingPayments float64
	BorrowerRentExpense  float64
	BorrowerAge          *int

	PropertyType domain.PropertyType
	DealType     domain.DealType
	Occupancy    domain.OccupancyIntent
	RiskProfile  domain.RiskProfile

	// MenuRates overlays the built-in default track rates; Quotes overlay both.
	MenuRates map[domain.Track]float64
	Quotes    *domain.Quotes
}

// Optimizer ranks candidate mixes for one borrower.
type Optimizer struct {
	limits  *config.RegulatoryLimits
	checker *feasibility.Checker
}

// NewOptimizer creates an optimizer bound to a limits configuration.
func NewOptimizer(limits *config.RegulatoryLimits) *Optimizer {
	return &Optimizer{
		limits:  limits,
		checker: feasibility.NewChecker(limits),
	}
}

// Optimize generates, prices, and ranks candidate mixes under the planning
// context, returning all candidates plus the engine and advisor picks.
func (o *Optimizer) Optimize(input LoanInput, planCtx domain.PlanningContext) domain.OptimizationResult {
	table := rates.NewTable(input.MenuRates)
	table.ApplyQuotes(input.Quotes)

	months := maxInt(input.TermYears, 1) * 12

	baskets := uniformBaskets()
	baskets = append(baskets, basket{label: LabelTailored, shares: tailoredShares(planCtx.SoftCaps)})

	candidates := make([]domain.OptimizationCandidate, 0, len(baskets))
	for _, b := range baskets {
		candidates = append(candidates, o.buildCandidate(b, input, planCtx, table, months))
	}
	o.annotateDominated(candidates)

	engineIdx := o.lowestScoring(candidates, planCtx.Weights, nil)
	advisorIdx := o.lowestScoring(candidates, planCtx.Weights, func(c domain.OptimizationCandidate) bool {
		return c.Feasibility != nil && c.Feasibility.IsFeasible && !c.SoftCapBreach
	})
	if advisorIdx < 0 {
		advisorIdx = engineIdx
	}

	return domain.OptimizationResult{
		Candidates:              candidates,
		RecommendedIndex:        advisorIdx,
		EngineRecommendedIndex:  engineIdx,
		AdvisorRecommendedIndex: advisorIdx,
		TermSweep:               o.termSweep(input, planCtx, table),
		Assumptions:             o.assumptions(input, planCtx, table),
	}
}

func (o *Optimizer) buildCandidate(b basket, input LoanInput, planCtx domain.PlanningContext, table *rates.Table, months int) domain.OptimizationCandidate {
	shares := b.shares.Normalized()
	metrics := o.computeMetrics(input, shares, planCtx, table, months)

	cand := domain.OptimizationCandidate{
		Label:   b.label,
		Shares:  shares,
		Metrics: metrics,
	}

	feas := o.checker.Check(feasibilityParams(input, metrics, shares))
	cand.Feasibility = &feas

	cand.Notes, cand.SoftCapBreach = softCapNotes(shares, metrics, planCtx.SoftCaps)
	return cand
}

// computeMetrics prices one mix: base annuity payment, scenario-weighted
// expected payment, the stress battery, and a full amortization simulation at
// the blended rate with any scheduled prepayments applied.
func (o *Optimizer) computeMetrics(input LoanInput, shares domain.TrackShares, planCtx domain.PlanningContext, table *rates.Table, months int) domain.MixMetrics {
	amount := input.AmountNIS
	income := math.Max(input.MonthlyNetIncome, 1)

	base := basePayment(amount, shares, table, months)
	expected, byScenario := expectedWeightedPayment(amount, shares, table, months, planCtx.ScenarioWeights)
	sensitivities := sensitivityBattery(amount, shares, table, months)

	highest := base
	peakDriver := "base"
	peakMonth := 1
	for _, name := range []string{"fall", "flat", "rise"} {
		if byScenario[name] > highest {
			highest = byScenario[name]
			peakDriver = "scenario_" + name
			peakMonth = 12
		}
	}
	maxStress := 0.0
	for _, s := range sensitivities {
		if s.PaymentNIS > maxStress {
			maxStress = s.PaymentNIS
		}
		if s.PaymentNIS > highest {
			highest = s.PaymentNIS
			peakDriver = s.Scenario
			peakMonth = 12
		}
	}

	var peakNote string
	if peakDriver != "base" {
		peakNote = fmt.Sprintf("peak payment of %.0f NIS under %s", highest, peakDriver)
	}

	avgRate := table.AverageRate(shares)
	totalInterest, totalPaid := amortize(amount, avgRate, months, planCtx.PrepaymentSchedule)

	// Five-year cost follows the scenario-weighted payment rather than the
	// flat fixing, so it moves with the rate outlook the same way the total
	// weighted cost does.
	fiveYearPaid := expected * float64(minInt(months, domain.PlanningHorizonMonths))

	// Scale total cost by the scenario-weighted payment drift so the number
	// reflects the rate outlook, not just today's fixing.
	totalWeighted := totalPaid
	if base > 0 {
		totalWeighted = totalPaid * (expected / base)
	}

	obligations := input.ExistingLoansPayment + input.OtherHousingPayments

	return domain.MixMetrics{
		MonthlyPaymentNIS:          base,
		PTIRatio:                   (base + obligations) / income,
		PTIRatioPeak:               (highest + obligations) / income,
		TotalInterestPaid:          totalInterest,
		MaxPaymentUnderStress:      maxStress,
		AverageRatePct:             avgRate * 100,
		ExpectedWeightedPaymentNIS: expected,
		HighestExpectedPaymentNIS:  highest,
		HighestExpectedPaymentNote: peakNote,
		PeakPaymentMonth:           peakMonth,
		PeakPaymentDriver:          peakDriver,
		FiveYearTotalPaymentNIS:    fiveYearPaid,
		TotalWeightedCostNIS:       totalWeighted,
		VariableSharePct:           shares.VariableShare() * 100,
		CPISharePct:                shares.CPIShare() * 100,
		LTVRatio:                   ltvRatio(amount, input.PropertyValueNIS),
		PrepaymentFeeExposure:      prepayExposure(shares),
		TrackDetails:               trackDetails(amount, shares, table),
		PaymentSensitivity:         sensitivities,
	}
}

func feasibilityParams(input LoanInput, metrics domain.MixMetrics, shares domain.TrackShares) feasibility.Params {
	term := input.TermYears
	assessed := metrics.MonthlyPaymentNIS
	peak := metrics.HighestExpectedPaymentNIS
	variable := shares.VariableShare()
	return feasibility.Params{
		MonthlyNetIncome:       input.MonthlyNetIncome,
		PropertyPriceNIS:       input.PropertyValueNIS,
		DownPaymentNIS:         input.DownPaymentNIS,
		PropertyType:           string(input.PropertyType),
		DealType:               string(input.DealType),
		Occupancy:              string(input.Occupancy),
		RiskProfile:            string(input.RiskProfile),
		ExistingLoansPayment:   input.ExistingLoansPayment,
		OtherHousingPayments:   input.OtherHousingPayments,
		BorrowerRentExpense:    input.BorrowerRentExpense,
		LoanTermYears:          &term,
		BorrowerAge:            input.BorrowerAge,
		AssessedMonthlyPayment: &assessed,
		PeakMonthlyPayment:     &peak,
		VariableShareRatio:     &variable,
	}
}

// softCapNotes reports advisory comfort-ceiling breaches. These never fail a
// candidate; they only redirect the advisor recommendation.
func softCapNotes(shares domain.TrackShares, metrics domain.MixMetrics, caps domain.SoftCaps) ([]string, bool) {
	var notes []string
	if shares.VariableShare() > caps.VariableShareMax+shareEpsilon {
		notes = append(notes, fmt.Sprintf("variable share %.0f%% exceeds comfort ceiling %.0f%%",
			shares.VariableShare()*100, caps.VariableShareMax*100))
	}
	if caps.CPIShareMax != nil && shares.CPIShare() > *caps.CPIShareMax+shareEpsilon {
		notes = append(notes, fmt.Sprintf("CPI-linked share %.0f%% exceeds comfort ceiling %.0f%%",
			shares.CPIShare()*100, *caps.CPIShareMax*100))
	}
	if caps.PaymentCeilingNIS != nil && metrics.HighestExpectedPaymentNIS > *caps.PaymentCeilingNIS {
		notes = append(notes, fmt.Sprintf("stressed payment %.0f NIS exceeds stated comfort ceiling %.0f NIS",
			metrics.HighestExpectedPaymentNIS, *caps.PaymentCeilingNIS))
	}
	return notes, len(notes) > 0
}

// score is the ranking objective; lower wins. Expected payment anchors the
// score, the remaining terms penalize volatility, CPI indexation, and
// prepayment-fee exposure per the borrower's weights.
func score(c domain.OptimizationCandidate, w domain.PreferenceWeights) float64 {
	return w.ExpectedCost*c.Metrics.ExpectedWeightedPaymentNIS +
		w.PaymentVolatility*c.Metrics.HighestExpectedPaymentNIS +
		w.CPIExposure*c.Shares.FixedCPI +
		w.PrepayFeeExposure*c.Shares.FixedUnindexed +
		c.Metrics.AverageRatePct/100
}

func (o *Optimizer) lowestScoring(candidates []domain.OptimizationCandidate, w domain.PreferenceWeights, eligible func(domain.OptimizationCandidate) bool) int {
	best := -1
	bestScore := math.Inf(1)
	for i, c := range candidates {
		if eligible != nil && !eligible(c) {
			continue
		}
		if s := score(c, w); s < bestScore {
			bestScore = s
			best = i
		}
	}
	return best
}

// annotateDominated flags candidates beaten on both expected cost and stress
// risk by another candidate, so divergence between cost and comfort picks is
// explainable.
func (o *Optimizer) annotateDominated(candidates []domain.OptimizationCandidate) {
	for i := range candidates {
		for j := range candidates {
			if i == j {
				continue
			}
			a, b := candidates[i].Metrics, candidates[j].Metrics
			dominated := b.ExpectedWeightedPaymentNIS <= a.ExpectedWeightedPaymentNIS &&
				b.HighestExpectedPaymentNIS <= a.HighestExpectedPaymentNIS &&
				(b.ExpectedWeightedPaymentNIS < a.ExpectedWeightedPaymentNIS ||
					b.HighestExpectedPaymentNIS < a.HighestExpectedPaymentNIS)
			if dominated {
				candidates[i].Notes = append(candidates[i].Notes,
					fmt.Sprintf("dominated on cost and stress by %s", candidates[j].Label))
				break
			}
		}
	}
}

// termSweep reprices the tailored mix at a small set of alternate terms to
// show the payment/PTI trade-off without re-optimizing the mix shape.
func (o *Optimizer) termSweep(input LoanInput, planCtx domain.PlanningContext, table *rates.Table) []domain.TermSweepEntry {
	shares := tailoredShares(planCtx.SoftCaps)
	income := math.Max(input.MonthlyNetIncome, 1)
	obligations := input.ExistingLoansPayment + input.OtherHousingPayments

	seen := make(map[int]bool)
	terms := make([]int, 0, len(alternateTermYears)+1)
	for _, t := range append(append([]int{}, alternateTermYears...), input.TermYears) {
		if t < sweepTermMin || t > sweepTermMax || seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	sort.Ints(terms)

	sweep := make([]domain.TermSweepEntry, 0, len(terms))
	for _, termYears := range terms {
		months := termYears * 12
		base := basePayment(input.AmountNIS, shares, table, months)
		expected, byScenario := expectedWeightedPayment(input.AmountNIS, shares, table, months, planCtx.ScenarioWeights)

		stress := base
		for _, p := range byScenario {
			if p > stress {
				stress = p
			}
		}
		for _, s := range sensitivityBattery(input.AmountNIS, shares, table, months) {
			if s.PaymentNIS > stress {
				stress = s.PaymentNIS
			}
		}

		sweep = append(sweep, domain.TermSweepEntry{
			TermYears:                  termYears,
			MonthlyPaymentNIS:          base,
			StressPaymentNIS:           stress,
			ExpectedWeightedPaymentNIS: expected,
			PTIRatio:                   (base + obligations) / income,
			PTIRatioPeak:               (stress + obligations) / income,
		})
	}
	return sweep
}

func (o *Optimizer) assumptions(input LoanInput, planCtx domain.PlanningContext, table *rates.Table) map[string]interface{} {
	rateSnapshot := make(map[string]float64)
	for track, rate := range table.Snapshot() {
		rateSnapshot[string(track)] = rate * 100
	}
	return map[string]interface{}{
		"annual_rates_pct": rateSnapshot,
		"scenario_weights": planCtx.ScenarioWeights,
		"scenario_shocks_pct": map[string]float64{
			"fall": shockFall * 100,
			"flat": shockFlat * 100,
			"rise": shockRise * 100,
		},
		"horizon_months":       domain.PlanningHorizonMonths,
		"requested_term_years": input.TermYears,
		"quotes_applied":       input.Quotes != nil && len(input.Quotes.Tracks) > 0,
	}
}

func ltvRatio(amount, propertyValue float64) float64 {
	if propertyValue <= 0 {
		return 0
	}
	return amount / propertyValue
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
