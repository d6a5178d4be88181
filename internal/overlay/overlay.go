// Package overlay renders detection boxes onto a copy of the input image
// for visual debugging. Pure read-only consumer of detections; nothing in
// the pipeline depends on it.
package overlay

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"megabonk-scanner/internal/aggregate"
	"megabonk-scanner/pkg/colorutil"
)

// Render draws bounding boxes, scores and counts onto a copy of img.
func Render(img image.Image, dets []aggregate.Detection) image.Image {
	dc := gg.NewContextForImage(img)

	for _, d := range dets {
		box := d.BoundingBox

		c := colorutil.Green
		switch {
		case d.Confidence < 0.5:
			c = colorutil.Magenta
		case d.Confidence < 0.7:
			c = colorutil.Yellow
		}

		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
		dc.SetLineWidth(2)
		dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
		dc.Stroke()

		label := fmt.Sprintf("%s %.2f", d.DisplayName, d.Confidence)
		if d.Count > 1 {
			label += fmt.Sprintf(" x%d", d.Count)
		}

		tw, th := dc.MeasureString(label)
		lx, ly := box.X, box.Y-4
		if ly-th < 0 {
			ly = box.Y + box.Height + th + 2
		}

		dc.SetRGBA255(0, 0, 0, 180)
		dc.DrawRectangle(lx-1, ly-th-1, tw+2, th+4)
		dc.Fill()

		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
		dc.DrawString(label, lx, ly)
	}

	return dc.Image()
}

// SavePNG renders the overlay and writes it to path.
func SavePNG(path string, img image.Image, dets []aggregate.Detection) error {
	return gg.SavePNG(path, Render(img, dets))
}
