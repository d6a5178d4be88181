//go:build !ocr
// +build !ocr

package count

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTesseractUnavailableWithoutTag(t *testing.T) {
	_, err := NewTesseractRecognizer()
	require.ErrorIs(t, err, ErrRecognizerUnavailable)
}
