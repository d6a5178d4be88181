// Package colorutil provides shared color utilities for the scanner.
package colorutil

import (
	"image"
	"image/color"
	"math"
)

// Common overlay colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // OpenCV's 0-180 range

	return h, s, v
}

// HueDistance returns the circular distance between two hues on the
// OpenCV 0-180 scale (wraps at 180).
func HueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 90 {
		d = 180 - d
	}
	return d
}

// DominantBorderHue samples the outer ring of an RGBA image and returns the
// circular mean hue of pixels with enough saturation to carry color
// information. Returns ok=false when the border is essentially gray.
// Rarity borders on inventory icons are strongly colored, so this is a
// cheap corroboration signal for low-confidence matches.
func DominantBorderHue(img *image.RGBA) (hue float64, ok bool) {
	const satFloor = 40.0 // below this the hue channel is noise

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 4 || h < 4 {
		return 0, false
	}

	// Ring thickness ~8% of the smaller dimension, at least 1px.
	thick := min(w, h) / 12
	if thick < 1 {
		thick = 1
	}

	var sumSin, sumCos float64
	colored := 0
	total := 0

	sample := func(x, y int) {
		c := img.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
		hh, ss, _ := RGBToHSV(float64(c.R), float64(c.G), float64(c.B))
		total++
		if ss < satFloor {
			return
		}
		// Hue is circular; average via unit vectors. OpenCV hue spans
		// 0-180 so the angle doubles to cover the full circle.
		rad := hh / 180.0 * 2 * math.Pi
		sumSin += math.Sin(rad)
		sumCos += math.Cos(rad)
		colored++
	}

	for t := 0; t < thick; t++ {
		for x := 0; x < w; x++ {
			sample(x, t)
			sample(x, h-1-t)
		}
		for y := thick; y < h-thick; y++ {
			sample(t, y)
			sample(w-1-t, y)
		}
	}

	if total == 0 || float64(colored)/float64(total) < 0.25 {
		return 0, false
	}

	rad := math.Atan2(sumSin, sumCos)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad / (2 * math.Pi) * 180.0, true
}
