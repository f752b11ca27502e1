package ocr

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/overlay-translate-mcp/internal/imaging"
	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
)

// DefaultLanguage is used when a Recognizer has no language set.
const DefaultLanguage = "jpn+eng"

// Recognizer runs line-level OCR.
type Recognizer struct {
	// Language is a Tesseract language spec such as "jpn+eng".
	Language string

	// Upscale enlarges the image before recognition. Values <= 1 disable it.
	Upscale float64

	// MinConfidence drops lines whose confidence (0.0 to 1.0) is lower.
	MinConfidence float64

	// TessdataPrefix overrides the directory Tesseract loads language data
	// from. Empty uses the system default.
	TessdataPrefix string
}

// NewRecognizer creates a Recognizer for language with the given upscale
// factor.
func NewRecognizer(language string, upscale float64) *Recognizer {
	return &Recognizer{Language: language, Upscale: upscale}
}

// Recognize runs OCR over encoded image data and returns one region per
// recognized text line, in Tesseract's reading order.
//
// Parameters:
//   - ctx: Checked before the (non-interruptible) recognition starts.
//   - data: PNG, JPEG or GIF image bytes.
//
// Returns:
//   - []overlay.OCRRegion: Recognized lines in input pixel coordinates.
//     Empty (not nil) when no text is found.
//   - error: Non-nil if the image cannot be decoded or Tesseract fails.
func (r *Recognizer) Recognize(ctx context.Context, data []byte) ([]overlay.OCRRegion, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	factor := 1.0
	if r.Upscale > 1 {
		factor = r.Upscale
		data, err = imaging.EncodePNG(imaging.Upscale(img, factor))
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if r.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(r.languages()...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	return toRegions(boxes, factor, r.MinConfidence), nil
}

func (r *Recognizer) languages() []string {
	lang := r.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	return strings.Split(lang, "+")
}

// toRegions converts Tesseract boxes from an image upscaled by factor into
// regions in original image coordinates.
func toRegions(boxes []gosseract.BoundingBox, factor, minConfidence float64) []overlay.OCRRegion {
	regions := make([]overlay.OCRRegion, 0, len(boxes))
	for _, box := range boxes {
		text := normalizeLineText(box.Word)
		if text == "" {
			continue
		}
		if float64(box.Confidence)/100.0 < minConfidence {
			continue
		}
		x1 := float64(box.Box.Min.X) / factor
		y1 := float64(box.Box.Min.Y) / factor
		x2 := float64(box.Box.Max.X) / factor
		y2 := float64(box.Box.Max.Y) / factor
		regions = append(regions, overlay.OCRRegion{
			Text: text,
			Box:  [4][2]float64{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}},
		})
	}
	return regions
}

// normalizeLineText trims a recognized line, collapses whitespace runs and
// removes the spaces Tesseract inserts between CJK characters.
func normalizeLineText(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(fields[0])
	for i := 1; i < len(fields); i++ {
		prev, _ := utf8.DecodeLastRuneInString(fields[i-1])
		next, _ := utf8.DecodeRuneInString(fields[i])
		if !isCJK(prev) && !isCJK(next) {
			b.WriteByte(' ')
		}
		b.WriteString(fields[i])
	}
	return b.String()
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0x3000 && r <= 0x303f) || // CJK punctuation
		(r >= 0xff00 && r <= 0xffef) // full-width forms
}

// Info describes the OCR backend.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language"`
	Error     string `json:"error,omitempty"`
}

// Info reports the Tesseract version and configured language.
func (r *Recognizer) Info() Info {
	info := Info{Language: strings.Join(r.languages(), "+")}
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	if version == "" {
		info.Error = "tesseract version unavailable"
		return info
	}
	info.Available = true
	info.Version = version
	return info
}
