package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
)

func TestUpscale(t *testing.T) {
	img := createInMemoryImage(40, 30, color.White)

	up := Upscale(img, 2)
	if b := up.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("got %dx%d, want 80x60", b.Dx(), b.Dy())
	}

	if Upscale(img, 1) != image.Image(img) {
		t.Error("factor 1 should return the input")
	}
	if Upscale(img, 0.5) != image.Image(img) {
		t.Error("factor below 1 should return the input")
	}
}

func TestFitViewport_Letterbox(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	img := createInMemoryImage(30, 17, red)
	vp := overlay.NewViewport(30, 17, 300, 300, 30.0/17.0)

	out := FitViewport(img, vp, 300, 300)
	if b := out.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("canvas: got %dx%d", b.Dx(), b.Dy())
	}

	// Bars above and below, picture in the middle.
	if got := out.NRGBAAt(150, 2); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("top bar: got %v", got)
	}
	if got := out.NRGBAAt(150, 150); got != red {
		t.Errorf("center: got %v", got)
	}
	if got := out.NRGBAAt(150, 297); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("bottom bar: got %v", got)
	}
}

func TestEncodePNGBase64(t *testing.T) {
	img := createInMemoryImage(5, 4, color.White)

	s, err := EncodePNGBase64(img)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Errorf("got %dx%d, want 5x4", b.Dx(), b.Dy())
	}
}

func TestComposite(t *testing.T) {
	bg := createInMemoryImage(4, 4, color.NRGBA{0, 0, 255, 255})
	fg := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	fg.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})

	out := Composite(bg, fg)

	if got := out.RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("opaque overlay pixel: got %v", got)
	}
	if got := out.RGBAAt(3, 3); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("transparent overlay pixel: got %v", got)
	}
}
