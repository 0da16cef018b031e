package domain

// TrackDetail describes one track component within a mix, priced.
type TrackDetail struct {
	Track         Track    `json:"track"`
	AmountNIS     float64  `json:"amount_nis"`
	RateDisplay   string   `json:"rate_display"`
	Indexation    string   `json:"indexation"`
	ResetNote     string   `json:"reset_note"`
	AnchorRatePct *float64 `json:"anchor_rate_pct,omitempty"`
}

// PaymentSensitivity is the payment under a single named rate shock.
type PaymentSensitivity struct {
	Scenario   string  `json:"scenario"`
	PaymentNIS float64 `json:"payment_nis"`
}

// PrepaymentExposure is a coarse prepayment-fee exposure tier.
type PrepaymentExposure string

const (
	PrepayExposureLow    PrepaymentExposure = "low"
	PrepayExposureMedium PrepaymentExposure = "medium"
	PrepayExposureHigh   PrepaymentExposure = "high"
)

// MixMetrics are the payment and risk metrics computed for one candidate mix.
type MixMetrics struct {
	MonthlyPaymentNIS          float64              `json:"monthly_payment_nis"`
	PTIRatio                   float64              `json:"pti_ratio"`
	PTIRatioPeak               float64              `json:"pti_ratio_peak"`
	TotalInterestPaid          float64              `json:"total_interest_paid"`
	MaxPaymentUnderStress      float64              `json:"max_payment_under_stress"`
	AverageRatePct             float64              `json:"average_rate_pct"`
	ExpectedWeightedPaymentNIS float64              `json:"expected_weighted_payment_nis"`
	HighestExpectedPaymentNIS  float64              `json:"highest_expected_payment_nis"`
	HighestExpectedPaymentNote string               `json:"highest_expected_payment_note,omitempty"`
	PeakPaymentMonth           int                  `json:"peak_payment_month"`
	PeakPaymentDriver          string               `json:"peak_payment_driver"`
	FiveYearTotalPaymentNIS    float64              `json:"five_year_total_payment_nis"`
	TotalWeightedCostNIS       float64              `json:"total_weighted_cost_nis"`
	VariableSharePct           float64              `json:"variable_share_pct"`
	CPISharePct                float64              `json:"cpi_share_pct"`
	LTVRatio                   float64              `json:"ltv_ratio"`
	PrepaymentFeeExposure      PrepaymentExposure   `json:"prepayment_fee_exposure"`
	TrackDetails               []TrackDetail        `json:"track_details"`
	PaymentSensitivity         []PaymentSensitivity `json:"payment_sensitivity"`
}

// TermSweepEntry summarizes the tailored mix at one term length.
type TermSweepEntry struct {
	TermYears                  int     `json:"term_years"`
	MonthlyPaymentNIS          float64 `json:"monthly_payment_nis"`
	StressPaymentNIS           float64 `json:"stress_payment_nis"`
	ExpectedWeightedPaymentNIS float64 `json:"expected_weighted_payment_nis"`
	PTIRatio                   float64 `json:"pti_ratio"`
	PTIRatioPeak               float64 `json:"pti_ratio_peak"`
}

// OptimizationCandidate is one ranked mix candidate. Candidates are built
// fresh per optimization run and never mutated after construction.
type OptimizationCandidate struct {
	Label       string             `json:"label"`
	Shares      TrackShares        `json:"shares"`
	Metrics     MixMetrics         `json:"metrics"`
	Feasibility *FeasibilityResult `json:"feasibility,omitempty"`
	Notes       []string           `json:"notes,omitempty"`

	// SoftCapBreach mirrors the soft-cap notes in structured form so the
	// advisor filter does not parse note text.
	SoftCapBreach bool `json:"soft_cap_breach,omitempty"`
}

// OptimizationResult is the full optimizer output.
type OptimizationResult struct {
	Candidates              []OptimizationCandidate `json:"candidates"`
	RecommendedIndex        int                     `json:"recommended_index"`
	EngineRecommendedIndex  int                     `json:"engine_recommended_index"`
	AdvisorRecommendedIndex int                     `json:"advisor_recommended_index"`
	TermSweep               []TermSweepEntry        `json:"term_sweep"`
	Assumptions             map[string]interface{}  `json:"assumptions"`
}
