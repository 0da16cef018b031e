package rates

import (
	"github.com/rs/zerolog/log"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

// DefaultAnchorRates are the reference anchor rates quoted margins apply to.
var DefaultAnchorRates = map[domain.RateAnchor]float64{
	domain.AnchorPrime:  0.06,
	domain.AnchorGov5Y:  0.032,
	domain.AnchorGov10Y: 0.035,
	domain.AnchorOther:  0.04,
}

// DefaultTrackRates are the built-in annual rates used when neither the
// average menu nor borrower quotes cover a track.
var DefaultTrackRates = map[domain.Track]float64{
	domain.TrackFixedUnindexed:    0.049,
	domain.TrackFixedCPI:          0.0302,
	domain.TrackVariablePrime:     0.0515,
	domain.TrackVariableUnindexed: 0.0482,
	domain.TrackVariableCPI:       0.0305,
}

// Table is a fully-resolved annual rate per track. It is an explicit
// configuration object constructed once per run and passed by reference; the
// engine keeps no hidden global rate state.
type Table struct {
	rates map[domain.Track]float64
}

// NewTable builds a rate table from the defaults overlaid with menu rates.
// A nil menu yields the pure defaults.
func NewTable(menu map[domain.Track]float64) *Table {
	rates := make(map[domain.Track]float64, len(DefaultTrackRates))
	for track, rate := range DefaultTrackRates {
		rates[track] = rate
	}
	for track, rate := range menu {
		if rate > 0 {
			rates[track] = rate
		}
	}
	return &Table{rates: rates}
}

// ApplyQuotes overlays borrower-specific quoted tracks: each quote resolves to
// its anchor rate plus margin, floored at zero.
func (t *Table) ApplyQuotes(quotes *domain.Quotes) {
	if quotes == nil {
		return
	}
	for _, quote := range quotes.Tracks {
		base, ok := DefaultAnchorRates[quote.RateAnchor]
		if !ok {
			base = t.Rate(quote.Track)
		}
		rate := base + quote.MarginPct/100
		if rate < 0 {
			rate = 0
		}
		t.rates[quote.Track] = rate
	}
}

// Rate returns the annual rate for a track. A missing rate resolves to zero,
// which surfaces downstream as an implausibly cheap payment; it is logged so
// the configuration gap is visible.
func (t *Table) Rate(track domain.Track) float64 {
	rate, ok := t.rates[track]
	if !ok {
		log.Warn().Str("track", string(track)).Msg("no resolved rate for track, treating as 0%")
		return 0
	}
	return rate
}

// Snapshot returns a copy of the resolved rates, for audit output.
func (t *Table) Snapshot() map[domain.Track]float64 {
	snapshot := make(map[domain.Track]float64, len(t.rates))
	for track, rate := range t.rates {
		snapshot[track] = rate
	}
	return snapshot
}

// AverageRate computes the share-weighted average rate of a mix.
func (t *Table) AverageRate(shares domain.TrackShares) float64 {
	total := shares.Total()
	if total <= 1e-6 {
		return 0
	}
	weighted := 0.0
	for _, track := range domain.MixTracks {
		weighted += t.Rate(track) * shares.Share(track)
	}
	return weighted / total
}
