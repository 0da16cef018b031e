package eligibility

import "github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"

// PriceAdjustment reports whether a cheaper property would clear the
// guardrails without any other change.
type PriceAdjustment struct {
	PriceReductionNIS float64 `json:"price_reduction_nis"`
	AdjustedPriceNIS  float64 `json:"adjusted_price_nis"`
	Qualifies         bool    `json:"qualifies"`
}

// Adjustments enumerates concrete paths from an infeasible scenario to a
// qualifying one.
type Adjustments struct {
	AdditionalDownPaymentNIS  float64           `json:"additional_down_payment_nis"`
	AdditionalIncomeNIS       *float64          `json:"additional_income_nis,omitempty"`
	PriceAdjustments          []PriceAdjustment `json:"price_adjustments"`
	QualifiesWithoutAdjusting bool              `json:"qualifies_without_adjusting"`
}

// priceReductionSteps are the round-number reductions a buyer can plausibly
// negotiate or re-shop at.
var priceReductionSteps = []float64{0, 50_000, 100_000, 200_000, 300_000}

const (
	incomeSweepMaxNIS  = 20_000
	incomeSweepStepNIS = 1_000
)

// AdjustmentsToQualify probes simple single-lever changes: more equity, a
// cheaper property, or higher household income. The income sweep runs at the
// standard risk preset so that the answer does not depend on a slider the
// borrower can move anyway.
func (e *Evaluator) AdjustmentsToQualify(req Request) Adjustments {
	base := e.Evaluate(req)

	adj := Adjustments{
		QualifiesWithoutAdjusting: base.IsEligible,
		PriceAdjustments:          make([]PriceAdjustment, 0, len(priceReductionSteps)),
	}
	if base.IsEligible {
		return adj
	}

	gap := base.RequiredDownPayment - req.DownPaymentAvailable
	if gap > 0 {
		adj.AdditionalDownPaymentNIS = gap
	}

	for _, reduction := range priceReductionSteps {
		trial := req
		trial.PropertyPrice = req.PropertyPrice - reduction
		if trial.PropertyPrice <= 0 {
			break
		}
		res := e.Evaluate(trial)
		adj.PriceAdjustments = append(adj.PriceAdjustments, PriceAdjustment{
			PriceReductionNIS: reduction,
			AdjustedPriceNIS:  trial.PropertyPrice,
			Qualifies:         res.IsEligible,
		})
	}

	for extra := float64(0); extra <= incomeSweepMaxNIS; extra += incomeSweepStepNIS {
		trial := req
		trial.MonthlyNetIncome = req.MonthlyNetIncome + extra
		trial.RiskProfile = domain.RiskStandard
		if e.Evaluate(trial).IsEligible {
			needed := extra
			adj.AdditionalIncomeNIS = &needed
			break
		}
	}

	return adj
}
