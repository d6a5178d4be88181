//go:build ocr
// +build ocr

package count

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer runs badge recognition through a local Tesseract
// instance. The client is not safe for concurrent use, so calls serialize
// on an internal mutex; callers bound their own fan-out on top.
type TesseractRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractRecognizer creates a recognizer backed by Tesseract.
func NewTesseractRecognizer() (*TesseractRecognizer, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Badge text is never an English word; disable dictionary correction
	// so "x3" does not get massaged into something else.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")

	return &TesseractRecognizer{client: client}, nil
}

// Close releases recognizer resources.
func (r *TesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		err := r.client.Close()
		r.client = nil
		return err
	}
	return nil
}

// Recognize performs OCR on a badge sub-image with the given whitelist.
func (r *TesseractRecognizer) Recognize(ctx context.Context, img image.Image, whitelist string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	processed := preprocess(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, processed); err != nil {
		return Result{}, fmt.Errorf("failed to encode badge image: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return Result{}, fmt.Errorf("recognizer is closed")
	}

	// One short uniform text line.
	if err := r.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return Result{}, fmt.Errorf("failed to set PSM: %w", err)
	}
	if whitelist != "" {
		if err := r.client.SetWhitelist(whitelist); err != nil {
			return Result{}, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Result{}, fmt.Errorf("OCR failed: %w", err)
	}

	// Join recognized words; badge text is one short token but Tesseract
	// occasionally splits the glyph from the digits.
	var parts []string
	conf := 0.0
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		parts = append(parts, word)
		if box.Confidence > conf {
			conf = box.Confidence
		}
	}

	return Result{
		Text:       strings.Join(parts, ""),
		Confidence: conf / 100.0,
	}, nil
}
