// Package rates resolves the annual interest rate per mortgage track: built-in
// defaults, overlaid by the published average-rate menu, overlaid by
// borrower-specific quoted tracks. The menu load is the engine's only external
// data dependency; it is loaded once and treated as read-only afterwards.
package rates

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

// canonicalToTrack maps menu canonical names onto engine track identifiers.
var canonicalToTrack = map[string]domain.Track{
	"variable_prime":    domain.TrackVariablePrime,
	"variable_unlinked": domain.TrackVariableUnindexed,
	"fixed_unindexed":   domain.TrackFixedUnindexed,
	"variable_cpi":      domain.TrackVariableCPI,
	"fixed_cpi":         domain.TrackFixedCPI,
}

type menuFile struct {
	Tracks map[string]yaml.Node `yaml:"tracks"`
}

// LoadMenu reads an average-rate menu yaml file and returns annual rates
// (decimals) keyed by canonical track. A missing file is not an error for
// callers that treat the menu as optional; they should check os.IsNotExist.
func LoadMenu(path string) (map[domain.Track]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate menu %s: %w", path, err)
	}
	return ParseMenu(data)
}

// ParseMenu parses average-rate menu yaml content. Each track entry carries a
// canonical_type plus either an explicit baseline_midpoint_pct or nested
// [low, high] ranges whose midpoints are averaged.
func ParseMenu(data []byte) (map[domain.Track]float64, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rate menu: %w", err)
	}
	if file.Tracks == nil {
		return nil, fmt.Errorf("rate menu missing tracks section")
	}

	results := make(map[domain.Track]float64)
	for name, node := range file.Tracks {
		var entry map[string]interface{}
		if err := node.Decode(&entry); err != nil {
			log.Warn().Str("track", name).Msg("skipping malformed rate menu entry")
			continue
		}

		canonical, _ := entry["canonical_type"].(string)
		track, ok := canonicalToTrack[canonical]
		if !ok {
			continue
		}

		ratePct, ok := numericValue(entry["baseline_midpoint_pct"])
		if !ok {
			midpoints := collectMidpoints(entry)
			if len(midpoints) == 0 {
				log.Warn().Str("track", canonical).Msg("no usable rate found for menu track")
				continue
			}
			sum := 0.0
			for _, m := range midpoints {
				sum += m
			}
			ratePct = sum / float64(len(midpoints))
		}

		if ratePct <= 0 {
			log.Warn().Str("track", canonical).Float64("rate_pct", ratePct).Msg("ignoring non-positive menu rate")
			continue
		}
		results[track] = ratePct / 100.0
	}
	return results, nil
}

// collectMidpoints walks a menu entry gathering midpoints of [low, high]
// numeric pairs nested anywhere under it.
func collectMidpoints(node interface{}) []float64 {
	var midpoints []float64

	switch v := node.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if key == "canonical_type" || key == "baseline_midpoint_pct" {
				continue
			}
			midpoints = append(midpoints, collectMidpoints(value)...)
		}
	case []interface{}:
		if low, high, ok := asRange(v); ok {
			midpoints = append(midpoints, (low+high)/2)
			break
		}
		for _, item := range v {
			midpoints = append(midpoints, collectMidpoints(item)...)
		}
	}
	return midpoints
}

func asRange(v []interface{}) (float64, float64, bool) {
	if len(v) != 2 {
		return 0, 0, false
	}
	low, okLow := numericValue(v[0])
	high, okHigh := numericValue(v[1])
	return low, high, okLow && okHigh
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
