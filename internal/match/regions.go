package match

import "megabonk-scanner/pkg/geometry"

// Slot sub-region fractions. Icons are drawn with a small frame margin and
// a numeric badge in the bottom-right corner; the icon comparison region
// trims the frame and the badge corner is masked out of the correlation.
const (
	iconInsetFraction = 0.10 // frame margin trimmed on every side

	badgeLeftFraction = 0.55 // badge corner within the full slot
	badgeTopFraction  = 0.62
)

// IconRegion returns the central icon sub-region of a slot, in the same
// coordinate space as the slot rectangle.
func IconRegion(slot geometry.RectInt) geometry.RectInt {
	insetX := int(float64(slot.Width) * iconInsetFraction)
	insetY := int(float64(slot.Height) * iconInsetFraction)
	return geometry.RectInt{
		X:      slot.X + insetX,
		Y:      slot.Y + insetY,
		Width:  slot.Width - 2*insetX,
		Height: slot.Height - 2*insetY,
	}
}

// BadgeRegion returns the stack-count badge sub-region of a slot: the
// bottom-right corner where the "xN" overlay is rendered.
func BadgeRegion(slot geometry.RectInt) geometry.RectInt {
	x := slot.X + int(float64(slot.Width)*badgeLeftFraction)
	y := slot.Y + int(float64(slot.Height)*badgeTopFraction)
	return geometry.RectInt{
		X:      x,
		Y:      y,
		Width:  slot.X + slot.Width - x,
		Height: slot.Y + slot.Height - y,
	}
}
