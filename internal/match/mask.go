package match

import "megabonk-scanner/internal/template"

// comparisonMask excludes the badge corner from correlation, in canonical
// template coordinates. The icon region already trimmed the slot frame, so
// the badge sits slightly further toward the center here than in the full
// slot.
var comparisonMask = buildMask()

// maskIndices lists the included pixel offsets; precomputed once since every
// comparison walks it.
var maskIndices = buildMaskIndices()

func buildMask() []bool {
	n := template.Size
	// Badge corner mapped from slot fractions through the icon inset.
	left := int(((badgeLeftFraction - iconInsetFraction) / (1 - 2*iconInsetFraction)) * float64(n))
	top := int(((badgeTopFraction - iconInsetFraction) / (1 - 2*iconInsetFraction)) * float64(n))

	mask := make([]bool, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			mask[y*n+x] = !(x >= left && y >= top)
		}
	}
	return mask
}

func buildMaskIndices() []int {
	idx := make([]int, 0, len(comparisonMask))
	for i, ok := range comparisonMask {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}
