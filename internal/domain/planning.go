package domain

// PlanningHorizonMonths is the fixed horizon the planning timelines cover.
const PlanningHorizonMonths = 60

// PreferenceWeights are the scoring weights derived from borrower
// preferences. ExpectedCost anchors the score and is always 1.0; the other
// three are normalized so they sum to 1.
type PreferenceWeights struct {
	ExpectedCost      float64 `json:"expected_cost"`
	PaymentVolatility float64 `json:"payment_volatility"`
	CPIExposure       float64 `json:"cpi_exposure"`
	PrepayFeeExposure float64 `json:"prepay_fee_exposure"`
}

// SoftCaps are comfort ceilings derived from preferences. They are advisory:
// the optimizer notes breaches but never fails a candidate on them.
// CPIShareMax is nil when no soft CPI constraint should be synthesized.
type SoftCaps struct {
	VariableShareMax  float64  `json:"variable_share_max"`
	CPIShareMax       *float64 `json:"cpi_share_max,omitempty"`
	PaymentCeilingNIS *float64 `json:"payment_ceiling_nis,omitempty"`
}

// ScenarioWeights are probability weights for the rate-outlook scenarios.
type ScenarioWeights struct {
	Fall float64 `json:"fall"`
	Flat float64 `json:"flat"`
	Rise float64 `json:"rise"`
}

// PrepaymentEvent is an anticipated partial prepayment.
type PrepaymentEvent struct {
	Month        int     `json:"month"`
	PctOfBalance float64 `json:"pct_of_balance"`
	Notes        string  `json:"notes,omitempty"`
}

// PlanningContext carries the derived optimization inputs consumed by the
// mix optimizer and eligibility calibration.
type PlanningContext struct {
	Weights            PreferenceWeights      `json:"weights"`
	SoftCaps           SoftCaps               `json:"soft_caps"`
	ScenarioWeights    ScenarioWeights        `json:"scenario_weights"`
	PrepaymentSchedule []PrepaymentEvent      `json:"prepayment_schedule,omitempty"`
	IncomeTimeline     []float64              `json:"income_timeline"`
	ExpenseTimeline    []float64              `json:"expense_timeline"`
	PTITargets         []float64              `json:"pti_targets"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
}
