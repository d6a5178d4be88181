//go:build !ocr
// +build !ocr

package count

import (
	"context"
	"image"
)

// TesseractRecognizer requires the ocr build tag; without it construction
// fails and callers fall back to count extraction disabled.
type TesseractRecognizer struct{}

func NewTesseractRecognizer() (*TesseractRecognizer, error) {
	return nil, ErrRecognizerUnavailable
}

func (r *TesseractRecognizer) Close() error { return nil }

func (r *TesseractRecognizer) Recognize(_ context.Context, _ image.Image, _ string) (Result, error) {
	return Result{}, ErrRecognizerUnavailable
}
