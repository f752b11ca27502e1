package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// skipIfNoTesseract skips the test when err looks like a missing Tesseract
// installation or language pack.
func skipIfNoTesseract(t *testing.T, err error) {
	t.Helper()
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") || strings.Contains(msg, "library") ||
		strings.Contains(msg, "language") || strings.Contains(msg, "tessdata") {
		t.Skip("Tesseract not available")
	}
}

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createLinesImage renders lines in black on white, each pixel blown up to a
// scale x scale block, and returns the PNG bytes.
func createLinesImage(t *testing.T, lines []string, scale int) []byte {
	t.Helper()

	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	w := maxLen*7 + 40
	h := len(lines)*20 + 30

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	for i, line := range lines {
		drawText(small, 20, 25+i*20, line, color.Black)
	}

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := small.At(x, y)
			draw.Draw(img, image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale),
				image.NewUniform(c), image.Point{}, draw.Src)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func TestToRegions(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(20, 40, 220, 80), Word: " HELLO  WORLD\n", Confidence: 91},
		{Box: image.Rect(0, 0, 10, 10), Word: "   ", Confidence: 99},
		{Box: image.Rect(10, 100, 50, 120), Word: "noise", Confidence: 12},
	}

	regions := toRegions(boxes, 2, 0.5)
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1: %+v", len(regions), regions)
	}

	r := regions[0]
	if r.Text != "HELLO WORLD" {
		t.Errorf("Text: got %q", r.Text)
	}
	want := [4][2]float64{{10, 20}, {110, 20}, {110, 40}, {10, 40}}
	if r.Box != want {
		t.Errorf("Box: got %v, want %v", r.Box, want)
	}
	if tl, br := r.TopLeft(), r.BottomRight(); tl.X != 10 || tl.Y != 20 || br.X != 110 || br.Y != 40 {
		t.Errorf("corners: %v %v", tl, br)
	}
}

func TestToRegions_Empty(t *testing.T) {
	regions := toRegions(nil, 1, 0)
	if regions == nil || len(regions) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", regions)
	}
}

func TestNormalizeLineText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  \n ", ""},
		{"Hello   there", "Hello there"},
		{"こ ん に ち は", "こんにちは"},
		{"「 勇 者 」 よ", "「勇者」よ"},
		{"HP 100 / 100", "HP 100 / 100"},
		{"レベル 5", "レベル5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeLineText(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecognizer_Languages(t *testing.T) {
	if got := (&Recognizer{}).languages(); strings.Join(got, ",") != "jpn,eng" {
		t.Errorf("default: got %v", got)
	}
	if got := NewRecognizer("eng", 1).languages(); len(got) != 1 || got[0] != "eng" {
		t.Errorf("eng: got %v", got)
	}
}

func TestRecognize_InvalidImage(t *testing.T) {
	r := NewRecognizer("eng", 1)
	if _, err := r.Recognize(context.Background(), []byte("not an image")); err == nil {
		t.Error("Recognize should fail for invalid data")
	}
}

func TestRecognize_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRecognizer("eng", 1)
	data := createLinesImage(t, []string{"HELLO"}, 3)
	if _, err := r.Recognize(ctx, data); err == nil {
		t.Error("Recognize should fail for a canceled context")
	}
}

func TestRecognize_RealText(t *testing.T) {
	data := createLinesImage(t, []string{"HELLO WORLD", "PRESS START"}, 4)

	r := NewRecognizer("eng", 1)
	regions, err := r.Recognize(context.Background(), data)
	if err != nil {
		skipIfNoTesseract(t, err)
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(regions) == 0 {
		t.Fatal("expected at least one text line")
	}

	bounds := image.Rect(0, 0, (11*7+40)*4, (2*20+30)*4)
	for _, reg := range regions {
		tl, br := reg.TopLeft(), reg.BottomRight()
		if tl.X < 0 || tl.Y < 0 || br.X > float64(bounds.Dx()) || br.Y > float64(bounds.Dy()) {
			t.Errorf("region %q outside image: %v", reg.Text, reg.Box)
		}
		if tl.X >= br.X || tl.Y >= br.Y {
			t.Errorf("degenerate box for %q: %v", reg.Text, reg.Box)
		}
	}
	if !strings.Contains(strings.ToUpper(regions[0].Text), "HELLO") {
		t.Logf("first line recognized as %q", regions[0].Text)
	}
}

func TestRecognize_UpscaleKeepsInputCoordinates(t *testing.T) {
	data := createLinesImage(t, []string{"CONTINUE"}, 3)
	w := float64((8*7 + 40) * 3)

	plain, err := NewRecognizer("eng", 1).Recognize(context.Background(), data)
	if err != nil {
		skipIfNoTesseract(t, err)
		t.Fatalf("Recognize failed: %v", err)
	}
	scaled, err := NewRecognizer("eng", 2).Recognize(context.Background(), data)
	if err != nil {
		t.Fatalf("Recognize with upscale failed: %v", err)
	}
	if len(plain) == 0 || len(scaled) == 0 {
		t.Skip("no text recognized in synthetic image")
	}

	if br := scaled[0].BottomRight(); br.X > w {
		t.Errorf("upscaled box not mapped back: right edge %v > width %v", br.X, w)
	}
}

func TestRecognizer_Info(t *testing.T) {
	info := NewRecognizer("jpn+eng", 1).Info()
	if info.Language != "jpn+eng" {
		t.Errorf("Language: got %q", info.Language)
	}
	if info.Available && info.Version == "" {
		t.Error("available backend should report a version")
	}
}
