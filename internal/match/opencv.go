//go:build gocv
// +build gocv

package match

import (
	"fmt"

	"gocv.io/x/gocv"

	"megabonk-scanner/internal/template"
)

func opencvAvailable() error {
	return nil
}

// compareOpenCV scores through OpenCV's TM_CCOEFF_NORMED on grayscale.
// Sample and template are the same size, so the correlation surface is a
// single value. OpenCV's matchTemplate does not support masks for this
// method, so the badge corner is included here; the OpenCV strategy trades
// that for SIMD-accelerated scoring on large template sets.
func compareOpenCV(sample *Sample, t *template.ReferenceTemplate) (float64, error) {
	src, err := gocv.ImageToMatRGBA(sample.Icon)
	if err != nil {
		return 0, fmt.Errorf("opencv: %w", err)
	}
	defer src.Close()

	tpl, err := gocv.ImageToMatRGBA(t.Image)
	if err != nil {
		return 0, fmt.Errorf("opencv: %w", err)
	}
	defer tpl.Close()

	srcGray := gocv.NewMat()
	defer srcGray.Close()
	gocv.CvtColor(src, &srcGray, gocv.ColorRGBAToGray)

	tplGray := gocv.NewMat()
	defer tplGray.Close()
	gocv.CvtColor(tpl, &tplGray, gocv.ColorRGBAToGray)

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(srcGray, tplGray, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, _ := gocv.MinMaxLoc(result)

	score := float64(maxVal)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}
