package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

func TestDefaultLimits_Directive329Values(t *testing.T) {
	limits := DefaultLimits()

	assert.InDelta(t, 0.50, limits.PTIRegulatoryLimit, 1e-9)
	assert.InDelta(t, 0.40, limits.PTIWarningThreshold, 1e-9)
	assert.InDelta(t, 2.0/3.0, limits.VariableShareLimit, 1e-9)
	assert.Equal(t, 30, limits.MaxTermYears)
	assert.Equal(t, 85, limits.MaxAgeAtMaturity)
	assert.InDelta(t, 1800000, limits.BuyerPriceAppraisalCapNIS, 1)
	assert.Equal(t, 36, limits.Exceptions.MaxBridgeTermMonths)
	assert.InDelta(t, 120000, limits.Exceptions.AnyPurposeAmountNIS, 1)
}

func TestLTVLimit_DealWinsOverProperty(t *testing.T) {
	limits := DefaultLimits()

	assert.InDelta(t, 0.75, limits.LTVLimit(domain.PropertyInvestment, domain.DealFirstHome), 1e-9)
	assert.InDelta(t, 0.50, limits.LTVLimit(domain.PropertySingle, domain.DealInvestment), 1e-9)
	assert.InDelta(t, 0.70, limits.LTVLimit(domain.PropertyReplacement, "unknown_deal"), 1e-9)
	assert.InDelta(t, 0.75, limits.LTVLimit("unknown_property", "unknown_deal"), 1e-9)
}

func TestAppliedPTILimit_PresetCappedByRegulatoryCeiling(t *testing.T) {
	limits := DefaultLimits()
	limits.PTIPresets[domain.RiskAggressive] = 0.55

	assert.InDelta(t, 0.30, limits.AppliedPTILimit(domain.RiskConservative), 1e-9)
	assert.InDelta(t, 0.35, limits.AppliedPTILimit("unheard_of"), 1e-9)
	assert.InDelta(t, 0.50, limits.AppliedPTILimit(domain.RiskAggressive), 1e-9)
}

func TestLoadLimits_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pti_warning_threshold: 0.38
max_term_years: 25
`), 0o644))

	limits, err := LoadLimits(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.38, limits.PTIWarningThreshold, 1e-9)
	assert.Equal(t, 25, limits.MaxTermYears)
	// Untouched values keep their defaults.
	assert.InDelta(t, 0.50, limits.PTIRegulatoryLimit, 1e-9)
	assert.InDelta(t, 0.75, limits.LTVLimit(domain.PropertySingle, domain.DealFirstHome), 1e-9)
}

func TestLoadLimits_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pti_regulatory_limit: 1.5
`), 0o644))

	_, err := LoadLimits(path)
	assert.Error(t, err)
}

func TestLoadLimits_MissingFile(t *testing.T) {
	_, err := LoadLimits(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
