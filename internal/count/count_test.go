package count

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		text string
		want int
		ok   bool
	}{
		{"x3", 3, true},
		{"X3", 3, true},
		{"×12", 12, true},
		{"3", 3, true},
		{"12x", 12, true},
		{" x 7 ", 7, true},
		{"x99", 99, true},
		{"", 0, false},
		{"x0", 0, false},
		{"x100", 0, false}, // above ceiling
		{"xx3", 0, false},
		{"3x3", 0, false},
		{"abc", 0, false},
		{"x-2", 0, false},
		{"x12345", 0, false},
	}
	for _, c := range cases {
		got, ok := Parse(c.text, 0)
		require.Equal(t, c.ok, ok, "text %q", c.text)
		if c.ok {
			require.Equal(t, c.want, got, "text %q", c.text)
		}
	}
}

func TestParseCustomCeiling(t *testing.T) {
	_, ok := Parse("x15", 10)
	require.False(t, ok)
	n, ok := Parse("x9", 10)
	require.True(t, ok)
	require.Equal(t, 9, n)
}

// fakeRecognizer returns queued results, or blocks until its context is
// canceled when told to hang.
type fakeRecognizer struct {
	mu      sync.Mutex
	results []Result
	err     error
	hang    bool
	calls   int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img image.Image, whitelist string) (Result, error) {
	if f.hang {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	if len(f.results) == 0 {
		return Result{}, nil
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

func badge() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 30, 25))
}

func TestExtractSuccess(t *testing.T) {
	rec := &fakeRecognizer{results: []Result{{Text: "x3", Confidence: 0.9}}}
	ext := Extract(context.Background(), rec, badge(), 0, 0)
	require.Equal(t, 3, ext.Count)
	require.Equal(t, 0.9, ext.Confidence)
	require.Empty(t, ext.Warning)
}

func TestExtractNilRecognizer(t *testing.T) {
	ext := Extract(context.Background(), nil, badge(), 0, 0)
	require.Equal(t, 1, ext.Count)
	require.Empty(t, ext.Warning)
}

func TestExtractEmptyTextIsSingleItem(t *testing.T) {
	// No badge text is the everyday single-item slot, not a failure.
	rec := &fakeRecognizer{results: []Result{{Text: "", Confidence: 0.4}}}
	ext := Extract(context.Background(), rec, badge(), 0, 0)
	require.Equal(t, 1, ext.Count)
	require.Empty(t, ext.Warning)
}

func TestExtractUnparseableText(t *testing.T) {
	rec := &fakeRecognizer{results: []Result{{Text: "garble", Confidence: 0.8}}}
	ext := Extract(context.Background(), rec, badge(), 0, 0)
	require.Equal(t, 1, ext.Count)
	require.Contains(t, ext.Warning, "garble")
}

func TestExtractRecognizerError(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("engine gone")}
	ext := Extract(context.Background(), rec, badge(), 0, 0)
	require.Equal(t, 1, ext.Count)
	require.Contains(t, ext.Warning, "engine gone")
}

func TestExtractTimeout(t *testing.T) {
	rec := &fakeRecognizer{hang: true}
	start := time.Now()
	ext := Extract(context.Background(), rec, badge(), 0, 50*time.Millisecond)
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, 1, ext.Count)
	require.Contains(t, ext.Warning, "timed out")
}

func TestExtractRespectsCeiling(t *testing.T) {
	rec := &fakeRecognizer{results: []Result{{Text: "x240", Confidence: 0.95}}}
	ext := Extract(context.Background(), rec, badge(), 99, 0)
	require.Equal(t, 1, ext.Count)
	require.Contains(t, ext.Warning, "x240")
}

func TestPreprocessBinarizes(t *testing.T) {
	// A dark badge with light digits becomes a black-on-white binary
	// image at recognizable scale.
	img := image.NewRGBA(image.Rect(0, 0, 30, 25))
	for y := 0; y < 25; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.Gray{Y: 20})
			if x > 10 && x < 20 && y > 8 && y < 16 {
				img.Set(x, y, color.Gray{Y: 230})
			}
		}
	}

	out := preprocess(img)
	b := out.Bounds()
	require.GreaterOrEqual(t, b.Dx(), minBadgeDim)

	// Strictly two-level output.
	seen := map[uint8]bool{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := out.GrayAt(x, y)
			seen[c.Y] = true
		}
	}
	require.LessOrEqual(t, len(seen), 2)

	// Polarity: the light-on-dark badge inverts, so digits come out black
	// on a white background. Sample the digit center and a background
	// corner through the upscale factor.
	scale := float64(b.Dx()) / 30.0
	digitX, digitY := int(15*scale), int(12*scale)
	require.Equal(t, uint8(0), out.GrayAt(digitX, digitY).Y)
	require.Equal(t, uint8(255), out.GrayAt(7, 7).Y)
}

func TestPreprocessKeepsDarkOnLight(t *testing.T) {
	// Already dark-on-light input must not get flipped back.
	img := image.NewRGBA(image.Rect(0, 0, 30, 25))
	for y := 0; y < 25; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.Gray{Y: 235})
			if x > 10 && x < 20 && y > 8 && y < 16 {
				img.Set(x, y, color.Gray{Y: 15})
			}
		}
	}

	out := preprocess(img)
	b := out.Bounds()
	scale := float64(b.Dx()) / 30.0
	require.Equal(t, uint8(0), out.GrayAt(int(15*scale), int(12*scale)).Y)
	require.Equal(t, uint8(255), out.GrayAt(7, 7).Y)
}
