package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRectIoU(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	require.InDelta(t, 1.0, a.IoU(a), 1e-9)
	require.Equal(t, 0.0, a.IoU(NewRect(20, 20, 10, 10)))

	// Half overlap: intersection 50, union 150.
	b := NewRect(5, 0, 10, 10)
	require.InDelta(t, 50.0/150.0, a.IoU(b), 1e-9)

	// Degenerate rectangles never overlap anything.
	require.Equal(t, 0.0, a.IoU(Rect{}))
}

func TestRectIntersection(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(6, 4, 10, 10)

	inter := a.Intersection(b)
	require.Equal(t, NewRect(6, 4, 4, 6), inter)

	// Disjoint rectangles intersect in the zero rect.
	require.Equal(t, Rect{}, a.Intersection(NewRect(11, 0, 5, 5)))
}

func TestRectIntInset(t *testing.T) {
	r := RectInt{X: 10, Y: 10, Width: 20, Height: 20}
	require.Equal(t, RectInt{X: 13, Y: 13, Width: 14, Height: 14}, r.Inset(3))

	// Over-inset collapses to zero size, never negative.
	collapsed := r.Inset(15)
	require.Equal(t, 0, collapsed.Width)
	require.Equal(t, 0, collapsed.Height)
}

func TestRectIntClamp(t *testing.T) {
	r := RectInt{X: -5, Y: 90, Width: 20, Height: 20}
	clamped := r.Clamp(100, 100)
	require.Equal(t, RectInt{X: 0, Y: 90, Width: 15, Height: 10}, clamped)

	// Fully outside clamps to empty.
	require.True(t, RectInt{X: 200, Y: 200, Width: 10, Height: 10}.Clamp(100, 100).Empty())
}

func TestRectContainsAndCenter(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	require.True(t, r.Contains(NewPoint2D(5, 5)))
	require.True(t, r.Contains(NewPoint2D(0, 10)))
	require.False(t, r.Contains(NewPoint2D(10.5, 5)))
	require.Equal(t, NewPoint2D(5, 5), r.Center())
}
