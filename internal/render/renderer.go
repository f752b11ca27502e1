package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/overlay-translate-mcp/internal/imaging"
	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
)

// Style holds the colors and outline width used for drawing.
type Style struct {
	Background  color.NRGBA
	Text        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

// DefaultStyle is a translucent black panel with cyan text outlined in black.
func DefaultStyle() Style {
	return Style{
		Background:  color.NRGBA{A: 0xde},
		Text:        color.NRGBA{G: 0xff, B: 0xff, A: 0xff},
		Stroke:      color.NRGBA{A: 0xff},
		StrokeWidth: 12,
	}
}

// ParseStyle builds a Style from hex color strings.
func ParseStyle(background, text, stroke string, strokeWidth float64) (Style, error) {
	var s Style
	var err error
	if s.Background, err = imaging.ParseColor(background); err != nil {
		return Style{}, fmt.Errorf("background: %w", err)
	}
	if s.Text, err = imaging.ParseColor(text); err != nil {
		return Style{}, fmt.Errorf("text: %w", err)
	}
	if s.Stroke, err = imaging.ParseColor(stroke); err != nil {
		return Style{}, fmt.Errorf("stroke: %w", err)
	}
	if strokeWidth < 0 {
		return Style{}, fmt.Errorf("stroke width must not be negative, got %v", strokeWidth)
	}
	s.StrokeWidth = strokeWidth
	return s, nil
}

// Renderer draws overlay plans.
type Renderer struct {
	face  *Face
	style Style
}

// NewRenderer creates a Renderer drawing with face and style.
func NewRenderer(face *Face, style Style) *Renderer {
	return &Renderer{face: face, style: style}
}

// Render paints plan onto a fully transparent width x height canvas.
func (r *Renderer) Render(plan *overlay.Plan, width, height int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	if plan == nil {
		return canvas
	}

	bg := image.NewUniform(r.style.Background)
	for _, inst := range plan.Instructions {
		if inst.Background != nil {
			fillRect(canvas, *inst.Background, bg)
		}
		for _, line := range inst.Lines {
			fillRect(canvas, line.Background, bg)
			r.drawText(canvas, line.Text, line.X, line.Y)
		}
	}
	return canvas
}

func fillRect(dst draw.Image, rect overlay.Rect, src image.Image) {
	x0 := int(math.Round(rect.X))
	y0 := int(math.Round(rect.Y))
	x1 := int(math.Round(rect.X + rect.W))
	y1 := int(math.Round(rect.Y + rect.H))
	draw.Draw(dst, image.Rect(x0, y0, x1, y1).Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
}

// drawText draws text with its baseline starting at (x, y): the outline
// first, then the fill on top.
func (r *Renderer) drawText(dst draw.Image, text string, x, y float64) {
	mask, origin := r.textMask(text)
	if mask == nil {
		return
	}
	at := image.Pt(int(math.Round(x))+origin.X, int(math.Round(y))+origin.Y)
	area := image.Rectangle{Min: at, Max: at.Add(mask.Bounds().Size())}

	if r.style.StrokeWidth > 0 {
		outline := effect.Dilate(mask, r.style.StrokeWidth/2)
		draw.DrawMask(dst, area, image.NewUniform(r.style.Stroke), image.Point{}, outline, outline.Bounds().Min, draw.Over)
	}
	draw.DrawMask(dst, area, image.NewUniform(r.style.Text), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}

// textMask renders text into an alpha mask padded for the outline. origin is
// the mask's top-left corner relative to the baseline start.
func (r *Renderer) textMask(text string) (*image.Alpha, image.Point) {
	r.face.mu.Lock()
	defer r.face.mu.Unlock()

	bounds, _ := font.BoundString(r.face.face, text)
	if bounds.Empty() {
		return nil, image.Point{}
	}

	pad := int(math.Ceil(r.style.StrokeWidth/2)) + 1
	minX := bounds.Min.X.Floor() - pad
	minY := bounds.Min.Y.Floor() - pad
	maxX := bounds.Max.X.Ceil() + pad
	maxY := bounds.Max.Y.Ceil() + pad

	mask := image.NewAlpha(image.Rect(0, 0, maxX-minX, maxY-minY))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: r.face.face,
		Dot:  fixed.P(-minX, -minY),
	}
	d.DrawString(text)
	return mask, image.Pt(minX, minY)
}
