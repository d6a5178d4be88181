package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"megabonk-scanner/pkg/geometry"
)

func TestLocateReferenceResolution(t *testing.T) {
	lay, err := Locate(1920, 1080)
	require.NoError(t, err)
	require.True(t, lay.Exact)
	require.Equal(t, "1080p", lay.Preset.Name)
	require.Equal(t, 1.0, lay.Scale)

	// 20 hotbar + 4 weapons + 4 tomes + portrait.
	require.Len(t, lay.Regions, 29)
	require.LessOrEqual(t, len(lay.Regions), MaxSlots)

	// Regions are indexed sequentially and sit inside the image.
	for i, r := range lay.Regions {
		require.Equal(t, i, r.SlotIndex)
		require.GreaterOrEqual(t, r.Bounds.X, 0.0)
		require.GreaterOrEqual(t, r.Bounds.Y, 0.0)
		require.LessOrEqual(t, r.Bounds.X+r.Bounds.Width, 1920.0)
		require.LessOrEqual(t, r.Bounds.Y+r.Bounds.Height, 1080.0)
	}

	kinds := map[RegionKind]int{}
	for _, r := range lay.Regions {
		kinds[r.Kind]++
	}
	require.Equal(t, 20, kinds[KindHotbar])
	require.Equal(t, 4, kinds[KindWeapon])
	require.Equal(t, 4, kinds[KindTome])
	require.Equal(t, 1, kinds[KindPortrait])
}

func TestLocateScalesExactlyWithHeight(t *testing.T) {
	base, err := Locate(1920, 1080)
	require.NoError(t, err)
	doubled, err := Locate(3840, 2160)
	require.NoError(t, err)

	require.Len(t, doubled.Regions, len(base.Regions))
	for i := range base.Regions {
		b := base.Regions[i].Bounds
		d := doubled.Regions[i].Bounds
		// Doubling the height doubles every coordinate exactly; geometry
		// is floating point so there is no rounding drift to tolerate.
		require.Equal(t, b.X*2, d.X, "slot %d x", i)
		require.Equal(t, b.Y*2, d.Y, "slot %d y", i)
		require.Equal(t, b.Width*2, d.Width, "slot %d width", i)
		require.Equal(t, b.Height*2, d.Height, "slot %d height", i)
	}
}

func TestLocateUltrawideRecenters(t *testing.T) {
	wide, err := Locate(2560, 1080)
	require.NoError(t, err)
	require.True(t, wide.Exact)

	base, err := Locate(1920, 1080)
	require.NoError(t, err)

	// Same height, wider screen: everything shifts right by half the
	// extra width, vertical positions unchanged.
	shift := (2560.0 - 1920.0) / 2
	for i := range base.Regions {
		require.Equal(t, base.Regions[i].Bounds.X+shift, wide.Regions[i].Bounds.X)
		require.Equal(t, base.Regions[i].Bounds.Y, wide.Regions[i].Bounds.Y)
	}
}

func TestLocateNearestPresetFallback(t *testing.T) {
	// 1912x1078 is no preset; nearest by pixel count is 1080p.
	lay, err := Locate(1912, 1078)
	require.NoError(t, err)
	require.False(t, lay.Exact)
	require.Equal(t, "1080p", lay.Preset.Name)
	require.InDelta(t, 1078.0/1080.0, lay.Scale, 1e-9)
}

func TestLocateRejectsImplausibleDimensions(t *testing.T) {
	for _, dims := range [][2]int{{100, 80}, {0, 0}, {319, 1080}, {1920, 239}} {
		_, err := Locate(dims[0], dims[1])
		require.ErrorIs(t, err, ErrUnresolved, "%dx%d", dims[0], dims[1])
	}
}

func TestPixelBoundsRounds(t *testing.T) {
	r := SlotRegion{Bounds: geometry.NewRect(10.6, 20.4, 65.5, 66.49)}
	px := r.PixelBounds()
	require.Equal(t, 11, px.X)
	require.Equal(t, 20, px.Y)
	require.Equal(t, 66, px.Width)
	require.Equal(t, 66, px.Height)
}
