package render

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Face wraps a font.Face for shared use by the layout engine and the
// renderer. font.Face implementations cache glyph data and are not safe for
// concurrent use, so every access goes through mu.
type Face struct {
	mu   sync.Mutex
	face font.Face
	size float64
}

// LoadFace loads a TrueType or OpenType font at size pixels. An empty path
// selects the embedded Go Regular font.
func LoadFace(path string, size float64) (*Face, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
	}
	return ParseFace(data, size)
}

// ParseFace parses font data and returns a face at size pixels.
func ParseFace(data []byte, size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return NewFace(face, size), nil
}

// NewFace wraps an existing face. size is informational.
func NewFace(face font.Face, size float64) *Face {
	return &Face{face: face, size: size}
}

// Size returns the nominal pixel size of the face.
func (f *Face) Size() float64 {
	return f.size
}

// MeasureWidth returns the advance width of s in pixels. It satisfies
// overlay.Measurer.
func (f *Face) MeasureWidth(s string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fixedToFloat(font.MeasureString(f.face, s))
}

// Close releases the underlying face.
func (f *Face) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Close()
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
