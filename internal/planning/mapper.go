// Package planning converts the qualitative side of a confirmed intake
// record, sliders, stated rate views, and future life plans, into the
// numeric optimization inputs the mix optimizer consumes. Build is a pure
// function over the record.
package planning

import (
	"math"
	"time"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/config"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

const (
	sliderMax = 10.0

	// defaultPTITarget applies when the borrower never states a payment ceiling.
	defaultPTITarget = 0.5

	// familyExpenseBumpRatio is the correlated expense increase attached to a
	// family or education event that reduces income.
	familyExpenseBumpRatio = 0.25
)

// Mapper derives planning contexts from confirmed intake records.
type Mapper struct {
	limits *config.RegulatoryLimits
}

// NewMapper creates a mapper bound to the given regulatory limits. The hard
// variable-share ceiling anchors the most cost-averse soft-cap tier.
func NewMapper(limits *config.RegulatoryLimits) *Mapper {
	return &Mapper{limits: limits}
}

// Build maps a confirmed intake record onto a PlanningContext.
func (m *Mapper) Build(record domain.InterviewRecord) domain.PlanningContext {
	prefs := record.Preferences

	ctx := domain.PlanningContext{
		Weights:         deriveWeights(prefs),
		SoftCaps:        m.deriveSoftCaps(prefs),
		ScenarioWeights: deriveScenarioWeights(prefs.RateView),
	}

	ctx.IncomeTimeline, ctx.ExpenseTimeline = buildTimelines(record)
	ctx.PTITargets = buildPTITargets(ctx.SoftCaps.PaymentCeilingNIS, ctx.IncomeTimeline)
	ctx.PrepaymentSchedule = buildPrepaymentSchedule(prefs)
	ctx.Metadata = map[string]interface{}{
		"horizon_months": domain.PlanningHorizonMonths,
		"generated_at":   time.Now().UTC().Format(time.RFC3339),
	}
	return ctx
}

// deriveWeights turns the three sliders into scoring weights. Expected cost
// is pinned at 1.0; the other three are normalized to sum to 1 so that no
// preference combination can drown out cost.
func deriveWeights(prefs domain.Preferences) domain.PreferenceWeights {
	volatility := clamp01(float64(prefs.StabilityVsCost) / sliderMax)

	cpi := 0.5
	if prefs.CPITolerance != nil {
		cpi = clamp01((sliderMax - float64(*prefs.CPITolerance)) / sliderMax)
	}

	prepay := 0.5
	if prefs.PrimeExposurePreference != nil {
		prepay = clamp01((sliderMax - float64(*prefs.PrimeExposurePreference)) / sliderMax)
	}

	total := volatility + cpi + prepay
	if total <= 0 {
		volatility, cpi, prepay = 1.0/3.0, 1.0/3.0, 1.0/3.0
	} else {
		volatility /= total
		cpi /= total
		prepay /= total
	}

	return domain.PreferenceWeights{
		ExpectedCost:      1.0,
		PaymentVolatility: volatility,
		CPIExposure:       cpi,
		PrepayFeeExposure: prepay,
	}
}

func (m *Mapper) deriveSoftCaps(prefs domain.Preferences) domain.SoftCaps {
	caps := domain.SoftCaps{}

	switch {
	case prefs.StabilityVsCost >= 7:
		caps.VariableShareMax = 0.50
	case prefs.StabilityVsCost <= 2:
		caps.VariableShareMax = m.limits.VariableShareLimit
	default:
		caps.VariableShareMax = 0.60
	}

	// A missing or bottomed-out tolerance means no soft CPI ceiling should be
	// synthesized; the hard limits carry the protection alone.
	if prefs.CPITolerance != nil && *prefs.CPITolerance > 2 {
		cpiCap := 0.35
		if *prefs.CPITolerance >= 7 {
			cpiCap = 0.50
		}
		caps.CPIShareMax = &cpiCap
	}

	if prefs.MaxPaymentNIS != nil {
		ceiling := *prefs.MaxPaymentNIS
		caps.PaymentCeilingNIS = &ceiling
	} else if prefs.RedLinePaymentNIS != nil {
		ceiling := *prefs.RedLinePaymentNIS
		caps.PaymentCeilingNIS = &ceiling
	}
	return caps
}

func deriveScenarioWeights(view domain.RateView) domain.ScenarioWeights {
	switch view {
	case domain.RateViewFall:
		return domain.ScenarioWeights{Fall: 0.5, Flat: 0.3, Rise: 0.2}
	case domain.RateViewRise:
		return domain.ScenarioWeights{Fall: 0.2, Flat: 0.3, Rise: 0.5}
	default:
		return domain.ScenarioWeights{Fall: 0.2, Flat: 0.6, Rise: 0.2}
	}
}

// buildTimelines projects baseline income and expenses across the planning
// horizon, then layers on each future plan's confidence-scaled income delta.
// Family and education events that cut income also raise expenses by a
// quarter of the drop from the same month onward.
func buildTimelines(record domain.InterviewRecord) (income, expenses []float64) {
	baseIncome := record.Borrower.TotalMonthlyIncome()
	baseExpenses := record.Borrower.FixedExpensesNIS

	income = make([]float64, domain.PlanningHorizonMonths)
	expenses = make([]float64, domain.PlanningHorizonMonths)
	for i := range income {
		income[i] = baseIncome
		expenses[i] = baseExpenses
	}

	for _, plan := range record.FuturePlans {
		// A plan without a declared month has no anchor on the timeline.
		if plan.TimeframeMonths == nil {
			continue
		}
		start := clampInt(*plan.TimeframeMonths, 0, domain.PlanningHorizonMonths-1)
		confidence := 1.0
		if plan.Confidence != nil {
			confidence = clamp01(*plan.Confidence)
		}
		delta := plan.ExpectedIncomeDeltaNIS * confidence
		if delta == 0 {
			continue
		}

		expenseBump := 0.0
		if delta < 0 && (plan.Category == "family" || plan.Category == "education") {
			expenseBump = -delta * familyExpenseBumpRatio
		}
		for month := start; month < domain.PlanningHorizonMonths; month++ {
			income[month] += delta
			expenses[month] += expenseBump
		}
	}
	return income, expenses
}

func buildPTITargets(ceiling *float64, income []float64) []float64 {
	targets := make([]float64, len(income))
	for i := range targets {
		if ceiling == nil {
			targets[i] = defaultPTITarget
			continue
		}
		targets[i] = clamp01(*ceiling / math.Max(income[i], 1))
	}
	return targets
}

func buildPrepaymentSchedule(prefs domain.Preferences) []domain.PrepaymentEvent {
	if prefs.ExpectedPrepayPct <= 0 || prefs.ExpectedPrepayMonth == nil {
		return nil
	}
	return []domain.PrepaymentEvent{{
		Month:        *prefs.ExpectedPrepayMonth,
		PctOfBalance: clamp01(prefs.ExpectedPrepayPct),
	}}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
