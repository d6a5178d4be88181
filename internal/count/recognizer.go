// Package count extracts numeric stack counts from slot badge overlays.
// Text recognition is an opaque, unreliable collaborator: sub-image in,
// guessed string plus confidence out. Its failures only ever cost the
// count, never the underlying detection.
package count

import (
	"context"
	"errors"
	"image"
)

// ErrRecognizerUnavailable is returned when Tesseract recognition is
// requested in a build without the ocr tag.
var ErrRecognizerUnavailable = errors.New("tesseract recognition requires the ocr build tag")

// BadgeChars is the character whitelist for badge recognition: digits plus
// the multiplier glyph in its common renderings. Restricting the set keeps
// the recognizer from "correcting" x3 into words.
const BadgeChars = "0123456789xX×"

// Result is a recognizer's best guess for one sub-image.
type Result struct {
	Text       string  // possibly empty
	Confidence float64 // 0-1, the recognizer's own estimate
}

// Recognizer is the external text-recognition capability. Implementations
// must tolerate arbitrary small images and may be called concurrently.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, whitelist string) (Result, error)
}
