package domain

// PropertyType is the property usage classification used for LTV ceilings.
type PropertyType string

const (
	PropertySingle      PropertyType = "single"
	PropertyReplacement PropertyType = "replacement"
	PropertyInvestment  PropertyType = "investment"
)

// DealType is the Bank-of-Israel deal category of the transaction.
type DealType string

const (
	DealFirstHome   DealType = "first_home"
	DealReplacement DealType = "replacement"
	DealInvestment  DealType = "investment"
)

// DealToProperty maps each deal category to its enforced usage classification.
var DealToProperty = map[DealType]PropertyType{
	DealFirstHome:   PropertySingle,
	DealReplacement: PropertyReplacement,
	DealInvestment:  PropertyInvestment,
}

// OccupancyIntent states whether the borrower will occupy the property.
type OccupancyIntent string

const (
	OccupancyOwn  OccupancyIntent = "own"
	OccupancyRent OccupancyIntent = "rent"
)

// ResidencyStatus is relevant for regulatory exceptions.
type ResidencyStatus string

const (
	ResidencyResident    ResidencyStatus = "resident"
	ResidencyNonResident ResidencyStatus = "non_resident"
)

// RiskProfile selects the payment-to-income preset used for affordability.
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskStandard     RiskProfile = "standard"
	RiskAggressive   RiskProfile = "aggressive"
)

// RateAnchor is the reference rate a quoted track's margin is applied to.
type RateAnchor string

const (
	AnchorPrime  RateAnchor = "prime"
	AnchorGov5Y  RateAnchor = "gov5y"
	AnchorGov10Y RateAnchor = "gov10y"
	AnchorOther  RateAnchor = "other"
)

// RateView is the borrower's stated view on the rate trajectory.
type RateView string

const (
	RateViewFall RateView = "fall"
	RateViewFlat RateView = "flat"
	RateViewRise RateView = "rise"
)

// Track identifies a rate-type component of a mortgage mix.
type Track string

const (
	TrackFixedUnindexed    Track = "fixed_unindexed"
	TrackFixedCPI          Track = "fixed_cpi"
	TrackVariablePrime     Track = "variable_prime"
	TrackVariableCPI       Track = "variable_cpi"
	TrackVariableUnindexed Track = "variable_unindexed"
)

// MixTracks are the four tracks a mix splits principal across, in canonical order.
var MixTracks = []Track{
	TrackFixedUnindexed,
	TrackFixedCPI,
	TrackVariablePrime,
	TrackVariableCPI,
}
