// Package template holds the reference icon library the matcher compares
// slots against. Templates are loaded once, precomputed, and never mutated;
// the library is safe for concurrent reads after Load returns.
package template

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"

	"megabonk-scanner/internal/catalog"
	"megabonk-scanner/internal/imaging"
	"megabonk-scanner/pkg/colorutil"
)

// Size is the canonical template edge length in pixels. Source icons are
// 64x64 (32x32 wiki art upscaled with Lanczos); anything else is resized
// on load.
const Size = 64

// Variant identifies where a template's pixels came from. Captured gameplay
// crops match runtime rendering far better than wiki art; when both exist
// for an entity the capture wins.
const (
	VariantWiki    = "wiki"
	VariantCapture = "capture"
)

// ReferenceTemplate is one canonical reference image for a game entity.
// Immutable after construction.
type ReferenceTemplate struct {
	EntityID    string
	DisplayName string
	Rarity      catalog.Rarity
	Variant     string

	// Canonical Size x Size pixel buffer.
	Image *image.RGBA

	// Precomputed signals, derived once from Image.
	Gray         []float64 // row-major luminance, length Size*Size
	Hash         *goimagehash.ImageHash
	BorderHue    float64
	HasBorderHue bool
}

// New builds a ReferenceTemplate from an arbitrary source image, resizing
// to the canonical size and precomputing the matcher's per-template signals.
func New(entityID, displayName string, rarity catalog.Rarity, variant string, src image.Image) (*ReferenceTemplate, error) {
	if entityID == "" {
		return nil, fmt.Errorf("template without entity id")
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("template %s: empty image", entityID)
	}

	var canonical *image.RGBA
	if b.Dx() == Size && b.Dy() == Size {
		canonical = imaging.ToRGBA(src)
	} else {
		canonical = imaging.Resize(src, Size, Size)
	}

	gray, _, _ := imaging.Grayscale(canonical)

	hash, err := goimagehash.AverageHash(canonical)
	if err != nil {
		return nil, fmt.Errorf("template %s: hashing failed: %w", entityID, err)
	}

	t := &ReferenceTemplate{
		EntityID:    entityID,
		DisplayName: displayName,
		Rarity:      rarity,
		Variant:     variant,
		Image:       canonical,
		Gray:        gray,
		Hash:        hash,
	}
	t.BorderHue, t.HasBorderHue = colorutil.DominantBorderHue(canonical)
	return t, nil
}
