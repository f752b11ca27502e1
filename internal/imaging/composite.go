package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blend"
)

// Composite alpha-blends fg over bg. The result covers the intersection of
// both sizes, anchored at the top-left corner.
func Composite(bg, fg image.Image) *image.RGBA {
	return blend.Normal(bg, fg)
}
