package domain

// TrackShares describes how loan principal is split across the four mix
// tracks. Shares need not sum to exactly 1 while a candidate is being
// searched; a candidate is only valid once normalized.
type TrackShares struct {
	FixedUnindexed float64 `json:"fixed_unindexed"`
	FixedCPI       float64 `json:"fixed_cpi"`
	VariablePrime  float64 `json:"variable_prime"`
	VariableCPI    float64 `json:"variable_cpi"`
}

// Total returns the sum of all shares.
func (s TrackShares) Total() float64 {
	return s.FixedUnindexed + s.FixedCPI + s.VariablePrime + s.VariableCPI
}

// VariableShare is the combined floating-rate exposure.
func (s TrackShares) VariableShare() float64 {
	return s.VariablePrime + s.VariableCPI
}

// CPIShare is the combined CPI-indexed exposure.
func (s TrackShares) CPIShare() float64 {
	return s.FixedCPI + s.VariableCPI
}

// FixedShare is the combined fixed-rate exposure.
func (s TrackShares) FixedShare() float64 {
	return s.FixedUnindexed + s.FixedCPI
}

// Share returns the share for a single track.
func (s TrackShares) Share(track Track) float64 {
	switch track {
	case TrackFixedUnindexed:
		return s.FixedUnindexed
	case TrackFixedCPI:
		return s.FixedCPI
	case TrackVariablePrime:
		return s.VariablePrime
	case TrackVariableCPI:
		return s.VariableCPI
	default:
		return 0
	}
}

// Normalized rescales the shares so they sum to 1. A zero total is returned
// unchanged.
func (s TrackShares) Normalized() TrackShares {
	total := s.Total()
	if total <= 0 {
		return s
	}
	return TrackShares{
		FixedUnindexed: s.FixedUnindexed / total,
		FixedCPI:       s.FixedCPI / total,
		VariablePrime:  s.VariablePrime / total,
		VariableCPI:    s.VariableCPI / total,
	}
}
