// Package config holds the regulatory guardrail constants the eligibility
// engine evaluates against. Values default to the Bank of Israel Directive
// 329 ceilings and can be overridden from a yaml file for jurisdictions or
// test scenarios that need different numbers.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

// VariableShareExceptions holds the thresholds that relax the variable-share
// cap (Directive 329 §12).
type VariableShareExceptions struct {
	MaxBridgeTermMonths int     `yaml:"max_bridge_term_months"`
	AnyPurposeAmountNIS float64 `yaml:"any_purpose_amount_nis"`
}

// RegulatoryLimits are the binding ceilings applied by the evaluator.
type RegulatoryLimits struct {
	PTIRegulatoryLimit        float64 `yaml:"pti_regulatory_limit"`
	PTIWarningThreshold       float64 `yaml:"pti_warning_threshold"`
	VariableShareLimit        float64 `yaml:"variable_share_limit"`
	MaxTermYears              int     `yaml:"max_term_years"`
	MaxAgeAtMaturity          int     `yaml:"max_age_at_maturity"`
	BuyerPriceAppraisalCapNIS float64 `yaml:"buyer_price_appraisal_cap_nis"`

	LTVLimitsByDeal     map[domain.DealType]float64     `yaml:"ltv_limits_by_deal"`
	LTVLimitsByProperty map[domain.PropertyType]float64 `yaml:"ltv_limits_by_property"`
	PTIPresets          map[domain.RiskProfile]float64  `yaml:"pti_presets"`

	Exceptions VariableShareExceptions `yaml:"exceptions"`
}

// DefaultLimits returns the built-in Directive 329 guardrails.
func DefaultLimits() *RegulatoryLimits {
	return &RegulatoryLimits{
		PTIRegulatoryLimit:        0.50,
		PTIWarningThreshold:       0.40,
		VariableShareLimit:        2.0 / 3.0,
		MaxTermYears:              30,
		MaxAgeAtMaturity:          85,
		BuyerPriceAppraisalCapNIS: 1_800_000,
		LTVLimitsByDeal: map[domain.DealType]float64{
			domain.DealFirstHome:   0.75,
			domain.DealReplacement: 0.70,
			domain.DealInvestment:  0.50,
		},
		LTVLimitsByProperty: map[domain.PropertyType]float64{
			domain.PropertySingle:      0.75,
			domain.PropertyReplacement: 0.70,
			domain.PropertyInvestment:  0.50,
		},
		PTIPresets: map[domain.RiskProfile]float64{
			domain.RiskConservative: 0.30,
			domain.RiskStandard:     0.35,
			domain.RiskAggressive:   0.40,
		},
		Exceptions: VariableShareExceptions{
			MaxBridgeTermMonths: 36,
			AnyPurposeAmountNIS: 120_000,
		},
	}
}

// LoadLimits reads regulatory limits from a yaml file, layered over the
// built-in defaults so partial files stay valid.
func LoadLimits(path string) (*RegulatoryLimits, error) {
	limits := DefaultLimits()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limits file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, limits); err != nil {
		return nil, fmt.Errorf("failed to parse limits file %s: %w", path, err)
	}
	if err := limits.validate(); err != nil {
		return nil, fmt.Errorf("limits validation failed: %w", err)
	}
	return limits, nil
}

func (l *RegulatoryLimits) validate() error {
	if l.PTIRegulatoryLimit <= 0 || l.PTIRegulatoryLimit > 1 {
		return fmt.Errorf("pti_regulatory_limit %.3f outside (0,1]", l.PTIRegulatoryLimit)
	}
	if l.VariableShareLimit <= 0 || l.VariableShareLimit > 1 {
		return fmt.Errorf("variable_share_limit %.3f outside (0,1]", l.VariableShareLimit)
	}
	if l.MaxTermYears <= 0 {
		return fmt.Errorf("max_term_years must be positive")
	}
	for deal, cap := range l.LTVLimitsByDeal {
		if cap <= 0 || cap > 1 {
			return fmt.Errorf("ltv limit %.3f for deal %s outside (0,1]", cap, deal)
		}
	}
	return nil
}

// LTVLimit resolves the LTV cap by deal classification first, falling back
// to the property classification, then to the first-home ceiling.
func (l *RegulatoryLimits) LTVLimit(property domain.PropertyType, deal domain.DealType) float64 {
	if cap, ok := l.LTVLimitsByDeal[deal]; ok {
		return cap
	}
	if cap, ok := l.LTVLimitsByProperty[property]; ok {
		return cap
	}
	return l.LTVLimitsByDeal[domain.DealFirstHome]
}

// PTIPreset returns the risk-profile affordability preset, defaulting to the
// standard profile for unknown values.
func (l *RegulatoryLimits) PTIPreset(profile domain.RiskProfile) float64 {
	if preset, ok := l.PTIPresets[profile]; ok {
		return preset
	}
	return l.PTIPresets[domain.RiskStandard]
}

// AppliedPTILimit is the cap used for violations: the risk preset never
// exceeds the hard regulatory ceiling.
func (l *RegulatoryLimits) AppliedPTILimit(profile domain.RiskProfile) float64 {
	preset := l.PTIPreset(profile)
	if preset > l.PTIRegulatoryLimit {
		return l.PTIRegulatoryLimit
	}
	return preset
}
