package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePropertyType_CaseInsensitiveWithFallback(t *testing.T) {
	assert.Equal(t, PropertySingle, ParsePropertyType("Single"))
	assert.Equal(t, PropertySingle, ParsePropertyType("FIRST_HOME"))
	assert.Equal(t, PropertyReplacement, ParsePropertyType("upgrade"))
	assert.Equal(t, PropertyInvestment, ParsePropertyType(" investment "))
	assert.Equal(t, PropertySingle, ParsePropertyType(""))
	assert.Equal(t, PropertySingle, ParsePropertyType("castle"))
}

func TestParseDealType_DerivesFromPropertyWhenEmpty(t *testing.T) {
	assert.Equal(t, DealReplacement, ParseDealType("", PropertyReplacement))
	assert.Equal(t, DealInvestment, ParseDealType("", PropertyInvestment))
	assert.Equal(t, DealFirstHome, ParseDealType("", PropertySingle))
	assert.Equal(t, DealInvestment, ParseDealType("Investment", PropertySingle))
	assert.Equal(t, DealFirstHome, ParseDealType("???", PropertySingle))
}

func TestParseOccupancy(t *testing.T) {
	assert.Equal(t, OccupancyOwn, ParseOccupancy("OWNER_OCCUPIED"))
	assert.Equal(t, OccupancyRent, ParseOccupancy("rented"))
	assert.Equal(t, OccupancyOwn, ParseOccupancy(""))
	assert.Equal(t, OccupancyOwn, ParseOccupancy("squatting"))
}

func TestParseRiskProfile(t *testing.T) {
	assert.Equal(t, RiskConservative, ParseRiskProfile("Conservative"))
	assert.Equal(t, RiskStandard, ParseRiskProfile(""))
	assert.Equal(t, RiskStandard, ParseRiskProfile("yolo"))
}

func TestReconcileDealOccupancy(t *testing.T) {
	assert.Equal(t, DealFirstHome, ReconcileDealOccupancy(DealInvestment, OccupancyOwn))
	assert.Equal(t, DealInvestment, ReconcileDealOccupancy(DealFirstHome, OccupancyRent))
	assert.Equal(t, DealReplacement, ReconcileDealOccupancy(DealReplacement, OccupancyOwn))
	assert.Equal(t, DealInvestment, ReconcileDealOccupancy(DealInvestment, OccupancyRent))
}
