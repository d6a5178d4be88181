// Package layout infers the inventory slot layout for a screenshot from its
// pixel dimensions alone. The game draws the pause-screen inventory as a
// fixed arrangement that scales linearly with screen height, so one measured
// reference layout covers every supported resolution.
package layout

import (
	"errors"
	"fmt"
	"log"
	"math"

	"megabonk-scanner/pkg/geometry"
)

// ErrUnresolved reports that no slot layout could be derived for the input.
// Callers treat it as a per-request failure, never a crash.
var ErrUnresolved = errors.New("inventory layout unresolved")

// RegionKind classifies what a slot region is expected to hold.
type RegionKind int

const (
	KindHotbar RegionKind = iota
	KindWeapon
	KindTome
	KindPortrait
)

func (k RegionKind) String() string {
	switch k {
	case KindHotbar:
		return "hotbar"
	case KindWeapon:
		return "weapon"
	case KindTome:
		return "tome"
	case KindPortrait:
		return "portrait"
	default:
		return "unknown"
	}
}

// SlotRegion is one expected icon slot, in image pixel coordinates.
// Bounds stay floating point so that scaling between resolutions is exact;
// pixel extraction rounds at the last moment.
type SlotRegion struct {
	Bounds    geometry.Rect `json:"bounds"`
	SlotIndex int           `json:"slot_index"`
	Kind      RegionKind    `json:"kind"`
}

// PixelBounds returns the region rounded to whole pixels.
func (r SlotRegion) PixelBounds() geometry.RectInt {
	return geometry.RectInt{
		X:      int(math.Round(r.Bounds.X)),
		Y:      int(math.Round(r.Bounds.Y)),
		Width:  int(math.Round(r.Bounds.Width)),
		Height: int(math.Round(r.Bounds.Height)),
	}
}

// Layout is the resolved slot arrangement for one screenshot.
type Layout struct {
	Preset  Preset       // nearest matched resolution preset
	Scale   float64      // height ratio applied to the reference layout
	Exact   bool         // true if the dimensions matched a preset exactly
	Regions []SlotRegion // ordered: hotbar, weapons, tomes, portrait
}

// Dimensions below which no layout can plausibly exist. Corrupted or
// truncated images land here.
const (
	minWidth  = 320
	minHeight = 240
)

// Locate infers the slot layout for an image of the given dimensions.
func Locate(width, height int) (*Layout, error) {
	if width < minWidth || height < minHeight {
		return nil, fmt.Errorf("%w: implausible dimensions %dx%d", ErrUnresolved, width, height)
	}

	preset, exact := nearestPreset(width, height)
	if !exact {
		log.Printf("[Layout] %dx%d matches no preset, using nearest %q (%dx%d)",
			width, height, preset.Name, preset.Width, preset.Height)
	}

	scale := float64(height) / float64(referenceHeight)

	// Wider-than-reference aspect ratios keep the inventory centered, so
	// shift all horizontal positions by the extra margin.
	xOffset := float64(width)/2 - float64(reference.centerX)*scale

	l := &Layout{Preset: preset, Scale: scale, Exact: exact}

	slot := float64(reference.slotSize) * scale
	pitch := float64(reference.slotSize+reference.slotSpacing) * scale
	band := float64(height) * bandFraction

	idx := 0
	add := func(x, y, w, h float64, kind RegionKind) {
		if len(l.Regions) >= MaxSlots {
			return
		}
		r := geometry.Rect{X: x + xOffset, Y: y, Width: w, Height: h}
		if r.X < 0 || r.Y < 0 || r.X+r.Width > float64(width) || r.Y+r.Height > float64(height) {
			return
		}
		if r.Y < band {
			// Outside the inventory strip; skip rather than scan gameplay.
			return
		}
		l.Regions = append(l.Regions, SlotRegion{Bounds: r, SlotIndex: idx, Kind: kind})
		idx++
	}

	// Hotbar grid, row-major top to bottom.
	for row := 0; row < reference.hotbarRows; row++ {
		y := float64(reference.hotbarY)*scale + float64(row)*pitch
		for col := 0; col < reference.hotbarCols; col++ {
			x := float64(reference.hotbarX)*scale + float64(col)*pitch
			add(x, y, slot, slot, KindHotbar)
		}
	}

	// Weapon row.
	for i := 0; i < reference.weaponCount; i++ {
		x := float64(reference.weaponX)*scale + float64(i)*pitch
		add(x, float64(reference.weaponY)*scale, slot, slot, KindWeapon)
	}

	// Tome row.
	for i := 0; i < reference.tomeCount; i++ {
		x := float64(reference.tomeX)*scale + float64(i)*pitch
		add(x, float64(reference.tomeY)*scale, slot, slot, KindTome)
	}

	// Character portrait.
	add(float64(reference.portraitX)*scale, float64(reference.portraitY)*scale,
		float64(reference.portraitW)*scale, float64(reference.portraitH)*scale, KindPortrait)

	if len(l.Regions) == 0 {
		return nil, fmt.Errorf("%w: no slot region fits %dx%d", ErrUnresolved, width, height)
	}
	return l, nil
}

// nearestPreset returns the closest preset and whether it is an exact match.
// Exact (width, height) wins; otherwise nearest by total pixel difference.
func nearestPreset(width, height int) (Preset, bool) {
	for _, p := range Presets {
		if p.Width == width && p.Height == height {
			return p, true
		}
	}

	best := Presets[0]
	bestDiff := math.MaxFloat64
	for _, p := range Presets {
		diff := math.Abs(float64(width*height - p.Width*p.Height))
		if diff < bestDiff {
			bestDiff = diff
			best = p
		}
	}
	return best, false
}
