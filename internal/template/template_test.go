package template

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"megabonk-scanner/internal/catalog"
)

func gradientIcon(size int, horizontal bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			t := x
			if !horizontal {
				t = y
			}
			v := uint8(t * 255 / (size - 1))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestNewResizesAndPrecomputes(t *testing.T) {
	tmpl, err := New("garlic", "Garlic", catalog.RarityCommon, VariantWiki, gradientIcon(32, true))
	require.NoError(t, err)

	require.Equal(t, Size, tmpl.Image.Bounds().Dx())
	require.Equal(t, Size, tmpl.Image.Bounds().Dy())
	require.Len(t, tmpl.Gray, Size*Size)
	require.NotNil(t, tmpl.Hash)
	// A grayscale gradient has no colored border.
	require.False(t, tmpl.HasBorderHue)
}

func TestNewRejectsDegenerateInput(t *testing.T) {
	_, err := New("", "x", catalog.RarityCommon, VariantWiki, gradientIcon(8, true))
	require.Error(t, err)

	_, err = New("x", "x", catalog.RarityCommon, VariantWiki, image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "garlic.png"), gradientIcon(64, true))
	writePNG(t, filepath.Join(dir, "whip.png"), gradientIcon(64, false))

	cat := catalog.NewStore([]catalog.Entry{
		{ID: "garlic", Name: "Garlic", Rarity: "common"},
	})

	lib, err := LoadDirectory(dir, cat)
	require.NoError(t, err)
	require.True(t, lib.Loaded())
	require.Equal(t, 2, lib.Len())

	garlic, ok := lib.Get("garlic")
	require.True(t, ok)
	require.Equal(t, "Garlic", garlic.DisplayName)
	require.Equal(t, catalog.RarityCommon, garlic.Rarity)
	require.Equal(t, VariantWiki, garlic.Variant)

	// Entities missing from the catalog still load, with the id as name.
	whip, ok := lib.Get("whip")
	require.True(t, ok)
	require.Equal(t, "whip", whip.DisplayName)
	require.Equal(t, catalog.RarityUnknown, whip.Rarity)

	// Templates come back sorted by entity id.
	ids := []string{}
	for _, tmpl := range lib.Templates() {
		ids = append(ids, tmpl.EntityID)
	}
	require.Equal(t, []string{"garlic", "whip"}, ids)
}

func TestLoadDirectorySkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "garlic.png"), gradientIcon(64, true))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))

	lib, err := LoadDirectory(dir, nil)
	require.NoError(t, err)
	require.Equal(t, 1, lib.Len())
	_, ok := lib.Get("broken")
	require.False(t, ok)
}

func TestLoadDirectoryAllBroken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("junk"), 0644))

	_, err := LoadDirectory(dir, nil)
	require.Error(t, err)
}

func TestLoadDirectoryEmpty(t *testing.T) {
	_, err := LoadDirectory(t.TempDir(), nil)
	require.Error(t, err)
}

func TestCaptureVariantSupersedesWiki(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "garlic@capture.png"), gradientIcon(64, false))
	writePNG(t, filepath.Join(dir, "garlic.png"), gradientIcon(64, true))

	lib, err := LoadDirectory(dir, nil)
	require.NoError(t, err)
	require.Equal(t, 1, lib.Len())

	tmpl, ok := lib.Get("garlic")
	require.True(t, ok)
	require.Equal(t, VariantCapture, tmpl.Variant)
}

func TestInvalidate(t *testing.T) {
	lib := NewFromTemplates([]*ReferenceTemplate{
		mustTemplate(t, "garlic", gradientIcon(64, true)),
	})
	require.True(t, lib.Loaded())
	require.Equal(t, 1, lib.Len())

	lib.Invalidate()
	require.False(t, lib.Loaded())
	require.Equal(t, 0, lib.Len())
	require.Nil(t, lib.Templates())
}

func mustTemplate(t *testing.T, id string, img image.Image) *ReferenceTemplate {
	t.Helper()
	tmpl, err := New(id, id, catalog.RarityCommon, VariantWiki, img)
	require.NoError(t, err)
	return tmpl
}
