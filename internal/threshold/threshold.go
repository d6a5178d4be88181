// Package threshold computes the per-run acceptance cutoff from the
// observed similarity distribution. A fixed global threshold cannot adapt
// to per-image lighting and effects; the selector instead looks for the
// natural break between true matches and noise in each run's scores, at
// the cost of run-to-run determinism.
package threshold

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"megabonk-scanner/internal/catalog"
)

// Band is the configured clamp range for the adaptive cutoff. Whatever the
// score distribution looks like, the selected cutoff stays inside it.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultBand covers the useful correlation range: below 0.30 everything is
// noise; above 0.85 even true matches get rejected on compression-artifact
// screenshots.
var DefaultBand = Band{Min: 0.30, Max: 0.85}

// Clamp restricts v to the band.
func (b Band) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Valid reports whether the band is a sane sub-range of [0,1].
func (b Band) Valid() bool {
	return b.Min >= 0 && b.Max <= 1 && b.Min <= b.Max
}

// minGap is the smallest adjacent-score gap treated as a clear break
// between the matched and unmatched populations.
const minGap = 0.08

// fallbackQuantile is used when the distribution shows no clear gap.
const fallbackQuantile = 0.75

// minSamplesForGap is the fewest scores for which gap detection is
// meaningful; below it the percentile fallback applies directly.
const minSamplesForGap = 3

// Select computes the acceptance cutoff for one run from the best-candidate
// scores of all occupied slots. The result always lies within the band.
func Select(bestScores []float64, band Band) float64 {
	if len(bestScores) == 0 {
		return band.Clamp(band.Max)
	}

	desc := make([]float64, len(bestScores))
	copy(desc, bestScores)
	sort.Sort(sort.Reverse(sort.Float64Slice(desc)))

	if len(desc) >= minSamplesForGap {
		// Largest adjacent gap in the descending distribution separates
		// the true-match cluster from the noise floor.
		gapAt := -1
		gapSize := 0.0
		for i := 0; i+1 < len(desc); i++ {
			if g := desc[i] - desc[i+1]; g > gapSize {
				gapSize = g
				gapAt = i
			}
		}
		if gapAt >= 0 && gapSize >= minGap {
			// Just above the low side of the gap.
			low := desc[gapAt+1]
			return band.Clamp(low + 0.1*gapSize)
		}
	}

	// No clear gap: percentile cutoff.
	asc := make([]float64, len(desc))
	copy(asc, desc)
	sort.Float64s(asc)
	return band.Clamp(stat.Quantile(fallbackQuantile, stat.Empirical, asc, nil))
}

// minSamplesPerRarity is how many slots of a rarity tier a run needs before
// that tier gets its own cutoff instead of the global one.
const minSamplesPerRarity = 3

// SelectPerRarity computes per-rarity cutoffs where a tier has enough
// samples, falling back to the global cutoff elsewhere. Rarity tiers differ
// in visual uniqueness, so their achievable similarity differs too. The
// overrides map, if non-nil, replaces the clamp band for specific tiers.
func SelectPerRarity(byRarity map[catalog.Rarity][]float64, global float64, band Band, overrides map[catalog.Rarity]Band) map[catalog.Rarity]float64 {
	out := make(map[catalog.Rarity]float64, len(byRarity))
	for rarity, scores := range byRarity {
		tierBand := band
		if b, ok := overrides[rarity]; ok {
			tierBand = b
		}
		if len(scores) >= minSamplesPerRarity {
			out[rarity] = Select(scores, tierBand)
		} else {
			out[rarity] = tierBand.Clamp(global)
		}
	}
	return out
}
