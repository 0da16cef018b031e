package domain

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Classification decode for loosely-typed external inputs. Matching is
// case-insensitive; unrecognized values fall back to a documented default and
// emit a diagnostic instead of rejecting the request.

var propertyTypeAliases = map[string]PropertyType{
	"single":      PropertySingle,
	"first_home":  PropertySingle,
	"replacement": PropertyReplacement,
	"upgrade":     PropertyReplacement,
	"investment":  PropertyInvestment,
}

var dealTypeAliases = map[string]DealType{
	"first_home":  DealFirstHome,
	"single":      DealFirstHome,
	"replacement": DealReplacement,
	"upgrade":     DealReplacement,
	"investment":  DealInvestment,
}

var occupancyAliases = map[string]OccupancyIntent{
	"own":            OccupancyOwn,
	"owner":          OccupancyOwn,
	"owner_occupied": OccupancyOwn,
	"rent":           OccupancyRent,
	"rented":         OccupancyRent,
}

var riskProfileAliases = map[string]RiskProfile{
	"conservative": RiskConservative,
	"standard":     RiskStandard,
	"aggressive":   RiskAggressive,
}

// ParsePropertyType decodes a property classification string. Empty and
// unrecognized inputs default to PropertySingle.
func ParsePropertyType(raw string) PropertyType {
	if raw == "" {
		return PropertySingle
	}
	if pt, ok := propertyTypeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return pt
	}
	log.Warn().Str("property_type", raw).Msg("unrecognized property type, defaulting to single")
	return PropertySingle
}

// ParseDealType decodes a deal classification string. When the input is empty
// the deal is derived from the property classification instead.
func ParseDealType(raw string, property PropertyType) DealType {
	if raw == "" {
		return dealForProperty(property)
	}
	if dt, ok := dealTypeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return dt
	}
	log.Warn().Str("deal_type", raw).Msg("unrecognized deal type, deriving from property classification")
	return dealForProperty(property)
}

// ParseOccupancy decodes an occupancy string, defaulting to owner occupation.
func ParseOccupancy(raw string) OccupancyIntent {
	if raw == "" {
		return OccupancyOwn
	}
	if oc, ok := occupancyAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return oc
	}
	log.Warn().Str("occupancy", raw).Msg("unrecognized occupancy, defaulting to own")
	return OccupancyOwn
}

// ParseRiskProfile decodes a risk profile string, defaulting to standard.
func ParseRiskProfile(raw string) RiskProfile {
	if raw == "" {
		return RiskStandard
	}
	if rp, ok := riskProfileAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return rp
	}
	log.Warn().Str("risk_profile", raw).Msg("unrecognized risk profile, defaulting to standard")
	return RiskStandard
}

// ReconcileDealOccupancy resolves inconsistent deal/occupancy pairs the way
// intake normalization does: owner-occupied deals cannot stay classified as
// investment, and rented-out deals cannot stay classified as first home.
// Coercions are logged, never rejected.
func ReconcileDealOccupancy(deal DealType, occupancy OccupancyIntent) DealType {
	switch {
	case occupancy == OccupancyOwn && deal == DealInvestment:
		log.Warn().Msg("owner-occupied deal marked investment, coercing to first_home")
		return DealFirstHome
	case occupancy == OccupancyRent && deal == DealFirstHome:
		log.Warn().Msg("rented-out deal marked first_home, coercing to investment")
		return DealInvestment
	default:
		return deal
	}
}

func dealForProperty(property PropertyType) DealType {
	switch property {
	case PropertyReplacement:
		return DealReplacement
	case PropertyInvestment:
		return DealInvestment
	default:
		return DealFirstHome
	}
}
