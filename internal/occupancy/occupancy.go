// Package occupancy decides whether a slot region holds an icon or just
// uniform pause-menu background. Empty slots are the dominant source of
// false matches and of wasted template comparisons, so they are filtered
// before matching. Background cells have near-zero combined color variance
// while any drawn icon produces a wide pixel distribution.
package occupancy

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"megabonk-scanner/pkg/colorutil"
)

// DefaultThreshold is the variance score below which a slot is considered
// empty. Calibrated conservatively: declaring an occupied slot "empty"
// silently loses a detection, while letting a background slot through only
// costs comparisons that the matcher will reject anyway.
const DefaultThreshold = 120.0

// sampleStride subsamples slot pixels; variance stabilizes long before
// every pixel is visited.
const sampleStride = 2

// Classification is the per-slot occupancy decision.
type Classification struct {
	Occupied bool    `json:"occupied"`
	Variance float64 `json:"variance"`
}

// Classify computes the slot's variance score and compares it against the
// threshold. A non-positive threshold selects DefaultThreshold.
func Classify(slot *image.RGBA, threshold float64) Classification {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	score := VarianceScore(slot)
	return Classification{Occupied: score >= threshold, Variance: score}
}

// VarianceScore combines per-channel RGB population variance with the
// saturation spread of the slot. Uniform background scores near zero in
// both terms; icons score high in at least one (grayscale icons still have
// luminance structure, flat-color icons still have border saturation).
func VarianceScore(slot *image.RGBA) float64 {
	bounds := slot.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	n := ((w + sampleStride - 1) / sampleStride) * ((h + sampleStride - 1) / sampleStride)
	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)
	sats := make([]float64, 0, n)

	for y := 0; y < h; y += sampleStride {
		for x := 0; x < w; x += sampleStride {
			c := slot.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			rs = append(rs, float64(c.R))
			gs = append(gs, float64(c.G))
			bs = append(bs, float64(c.B))
			_, s, _ := colorutil.RGBToHSV(float64(c.R), float64(c.G), float64(c.B))
			sats = append(sats, s)
		}
	}

	if len(rs) < 2 {
		return 0
	}

	varRGB := (stat.PopVariance(rs, nil) + stat.PopVariance(gs, nil) + stat.PopVariance(bs, nil)) / 3
	varSat := stat.PopVariance(sats, nil)
	return varRGB + varSat
}
