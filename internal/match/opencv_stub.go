//go:build !gocv
// +build !gocv

package match

import "megabonk-scanner/internal/template"

func compareOpenCV(_ *Sample, _ *template.ReferenceTemplate) (float64, error) {
	return 0, ErrOpenCVUnavailable
}

func opencvAvailable() error {
	return ErrOpenCVUnavailable
}
