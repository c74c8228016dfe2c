package pipeline

import (
	"github.com/chewxy/math32"

	"github.com/ayusman/handosc/internal/detector"
)

// AspectFill projects capture-relative points onto a view that shows the
// capture frame scaled to cover the whole view, centered, with the
// overflowing edges cropped.
type AspectFill struct {
	FrameWidth  float32
	FrameHeight float32
	ViewWidth   float32
	ViewHeight  float32
	// Mirror flips the x axis, as a front camera preview is displayed.
	Mirror bool
}

// NewAspectFill creates an AspectFill projector for the given frame and
// view sizes in pixels.
func NewAspectFill(frameW, frameH, viewW, viewH int, mirror bool) *AspectFill {
	return &AspectFill{
		FrameWidth:  float32(frameW),
		FrameHeight: float32(frameH),
		ViewWidth:   float32(viewW),
		ViewHeight:  float32(viewH),
		Mirror:      mirror,
	}
}

// SetFrameSize updates the capture frame size in pixels. Capture devices
// may deliver a different size than the one requested.
func (a *AspectFill) SetFrameSize(width, height int) {
	a.FrameWidth = float32(width)
	a.FrameHeight = float32(height)
}

// Project maps a normalized point into view pixels.
func (a *AspectFill) Project(p detector.Point) detector.Point {
	if a.FrameWidth <= 0 || a.FrameHeight <= 0 {
		return detector.Point{X: p.X * a.ViewWidth, Y: p.Y * a.ViewHeight}
	}

	scale := math32.Max(a.ViewWidth/a.FrameWidth, a.ViewHeight/a.FrameHeight)
	scaledW := a.FrameWidth * scale
	scaledH := a.FrameHeight * scale
	offsetX := (a.ViewWidth - scaledW) / 2
	offsetY := (a.ViewHeight - scaledH) / 2

	x := p.X
	if a.Mirror {
		x = 1 - x
	}

	return detector.Point{
		X: offsetX + x*scaledW,
		Y: offsetY + p.Y*scaledH,
	}
}
