package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

func TestNewTable_DefaultsWhenMenuNil(t *testing.T) {
	table := NewTable(nil)
	assert.InDelta(t, 0.049, table.Rate(domain.TrackFixedUnindexed), 1e-9)
	assert.InDelta(t, 0.0515, table.Rate(domain.TrackVariablePrime), 1e-9)
}

func TestNewTable_MenuOverlaysDefaults(t *testing.T) {
	table := NewTable(map[domain.Track]float64{
		domain.TrackFixedUnindexed: 0.052,
		domain.TrackFixedCPI:       -0.01, // non-positive entries ignored
	})
	assert.InDelta(t, 0.052, table.Rate(domain.TrackFixedUnindexed), 1e-9)
	assert.InDelta(t, 0.0302, table.Rate(domain.TrackFixedCPI), 1e-9)
}

func TestApplyQuotes_AnchorPlusMargin(t *testing.T) {
	table := NewTable(nil)
	table.ApplyQuotes(&domain.Quotes{Tracks: []domain.QuoteTrack{
		{Track: domain.TrackVariablePrime, RateAnchor: domain.AnchorPrime, MarginPct: -0.6},
		{Track: domain.TrackVariableCPI, RateAnchor: domain.AnchorGov5Y, MarginPct: 1.9},
	}})

	// Prime 6.00% - 0.60% and Gov5y 3.20% + 1.90%.
	assert.InDelta(t, 0.054, table.Rate(domain.TrackVariablePrime), 1e-9)
	assert.InDelta(t, 0.051, table.Rate(domain.TrackVariableCPI), 1e-9)
}

func TestApplyQuotes_UnknownAnchorFallsBackToCurrentRate(t *testing.T) {
	table := NewTable(nil)
	table.ApplyQuotes(&domain.Quotes{Tracks: []domain.QuoteTrack{
		{Track: domain.TrackFixedUnindexed, RateAnchor: "libor", MarginPct: 0.5},
	}})
	assert.InDelta(t, 0.049+0.005, table.Rate(domain.TrackFixedUnindexed), 1e-9)
}

func TestApplyQuotes_FloorsAtZero(t *testing.T) {
	table := NewTable(nil)
	table.ApplyQuotes(&domain.Quotes{Tracks: []domain.QuoteTrack{
		{Track: domain.TrackVariablePrime, RateAnchor: domain.AnchorPrime, MarginPct: -9.0},
	}})
	assert.Equal(t, 0.0, table.Rate(domain.TrackVariablePrime))
}

func TestAverageRate_ShareWeighted(t *testing.T) {
	table := NewTable(nil)
	shares := domain.TrackShares{FixedUnindexed: 0.5, VariablePrime: 0.5}
	expected := (0.049 + 0.0515) / 2
	assert.InDelta(t, expected, table.AverageRate(shares), 1e-9)
}

func TestAverageRate_ZeroShares(t *testing.T) {
	table := NewTable(nil)
	assert.Equal(t, 0.0, table.AverageRate(domain.TrackShares{}))
}

func TestSnapshot_IsACopy(t *testing.T) {
	table := NewTable(nil)
	snapshot := table.Snapshot()
	snapshot[domain.TrackFixedUnindexed] = 0.99
	assert.InDelta(t, 0.049, table.Rate(domain.TrackFixedUnindexed), 1e-9)
}
