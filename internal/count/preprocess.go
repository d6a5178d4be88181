package count

import (
	"image"

	"megabonk-scanner/internal/imaging"
)

// minBadgeDim is the smallest edge recognition handles well; badge crops
// are upscaled to at least this before binarization.
const minBadgeDim = 96

// preprocess prepares a badge crop for recognition: upscale small crops,
// grayscale, Otsu binarization, and polarity normalization. Badge digits
// render light-on-dark; recognition expects dark text on light background.
func preprocess(img image.Image) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.NewGray(image.Rect(0, 0, 1, 1))
	}

	if minDim := min(w, h); minDim < minBadgeDim {
		scale := float64(minBadgeDim) / float64(minDim)
		img = imaging.Resize(img, int(float64(w)*scale), int(float64(h)*scale))
		b = img.Bounds()
		w, h = b.Dx(), b.Dy()
	}

	rgba := imaging.ToRGBA(img)
	lum, _, _ := imaging.Grayscale(rgba)

	gray := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range lum {
		gray.Pix[i] = uint8(v)
	}

	// Otsu threshold separates text from background without tuning.
	t := otsuThreshold(gray.Pix)

	white := 0
	for i, v := range gray.Pix {
		if v > t {
			gray.Pix[i] = 255
			white++
		} else {
			gray.Pix[i] = 0
		}
	}

	// Digits are the minority class. When they thresholded to white the
	// badge was light-on-dark: invert so recognition always sees dark
	// text on a light background.
	if white*2 < len(gray.Pix) {
		for i := range gray.Pix {
			gray.Pix[i] = 255 - gray.Pix[i]
		}
	}

	return gray
}

// otsuThreshold finds the threshold maximizing between-class variance.
func otsuThreshold(pix []uint8) uint8 {
	var hist [256]int
	for _, v := range pix {
		hist[v]++
	}

	total := len(pix)
	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	bestVar := -1.0
	var best uint8
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}
