package match

import "math"

// compareNCC computes the masked zero-mean normalized cross-correlation of
// two canonical grayscale buffers and maps it to [0,1]. Negative
// correlation carries no useful ranking signal for icon identity, so it
// clamps to zero rather than folding into the positive range.
func compareNCC(sampleGray, templateGray []float64) float64 {
	if len(sampleGray) != len(templateGray) {
		return 0
	}

	n := float64(len(maskIndices))
	if n < 2 {
		return 0
	}

	var sumS, sumT float64
	for _, i := range maskIndices {
		sumS += sampleGray[i]
		sumT += templateGray[i]
	}
	meanS := sumS / n
	meanT := sumT / n

	var cov, varS, varT float64
	for _, i := range maskIndices {
		ds := sampleGray[i] - meanS
		dt := templateGray[i] - meanT
		cov += ds * dt
		varS += ds * ds
		varT += dt * dt
	}

	// A flat sample or template has no structure to correlate. Treat two
	// flat buffers as a perfect match (empty-vs-empty), one-sided flatness
	// as no match.
	const eps = 1e-9
	if varS < eps || varT < eps {
		if varS < eps && varT < eps {
			return 1
		}
		return 0
	}

	r := cov / math.Sqrt(varS*varT)
	if r <= 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
