package overlay

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is a centered region of the output canvas with a fixed aspect
// ratio, together with the scale that maps input pixels into it.
type Viewport struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
}

// NewViewport fits a targetAspect (width/height) viewport into an outW x outH
// canvas. A canvas wider than the target is pillarboxed (full height, centered
// horizontally); otherwise it is letterboxed (full width, centered
// vertically). Scales map an inW x inH input onto the viewport.
func NewViewport(inW, inH, outW, outH, targetAspect float64) Viewport {
	var v Viewport
	if outW/outH > targetAspect {
		v.Height = outH
		v.Width = v.Height * targetAspect
		v.OffsetX = (outW - v.Width) / 2
	} else {
		v.Width = outW
		v.Height = v.Width / targetAspect
		v.OffsetY = (outH - v.Height) / 2
	}
	v.ScaleX = v.Width / inW
	v.ScaleY = v.Height / inH
	return v
}

// Map projects an input point into canvas space. Points outside the input
// bounds are not clipped.
func (v Viewport) Map(p Point) Point {
	return Point{
		X: v.OffsetX + p.X*v.ScaleX,
		Y: v.OffsetY + p.Y*v.ScaleY,
	}
}

// Unmap is the inverse of Map.
func (v Viewport) Unmap(p Point) Point {
	return Point{
		X: (p.X - v.OffsetX) / v.ScaleX,
		Y: (p.Y - v.OffsetY) / v.ScaleY,
	}
}

// ScalePointAR maps (x, y) from an inW x inH input into the targetAspect
// viewport centered in an outW x outH canvas.
func ScalePointAR(x, y, inW, inH, outW, outH, targetAspect float64) Point {
	return NewViewport(inW, inH, outW, outH, targetAspect).Map(Point{X: x, Y: y})
}

// ScalePoint maps (x, y) by stretching the input over the whole canvas,
// ignoring aspect ratio.
func ScalePoint(x, y, inW, inH, outW, outH float64) Point {
	return Point{X: x * (outW / inW), Y: y * (outH / inH)}
}
