package overlay

import "math"

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Line is one wrapped line of translated text. X, Y is the baseline origin;
// Background is the tight box cleared behind the text.
type Line struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Background Rect    `json:"background"`
}

// DrawInstruction tells the rasterizer how to draw one entry. Background is
// nil when the entry had no region match and was placed at the cursor.
type DrawInstruction struct {
	Location   string  `json:"location"`
	Matched    bool    `json:"matched"`
	MatchScore float64 `json:"match_score,omitempty"`
	RegionText string  `json:"region_text,omitempty"`
	Background *Rect   `json:"background_rect,omitempty"`
	Lines      []Line  `json:"lines"`
}

// Plan is the result of one layout pass.
type Plan struct {
	Instructions []DrawInstruction `json:"instructions"`
	// Removed counts entries dropped by the filter and deduplicator.
	Removed int `json:"removed"`
	// Matched counts entries anchored to an OCR region.
	Matched int `json:"matched"`
	// Cursor is the fallback anchor after the last entry.
	Cursor Cursor `json:"cursor"`
}

// Cursor is the fallback anchor for entries without a region match. It only
// moves when an entry is matched.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Advance returns the cursor moved to p.
func (c Cursor) Advance(p Point) Cursor {
	return Cursor{X: p.X, Y: p.Y}
}

// Point returns the cursor position.
func (c Cursor) Point() Point {
	return Point{X: c.X, Y: c.Y}
}

// Measurer reports the rendered width of a line of text in pixels.
type Measurer interface {
	MeasureWidth(text string) float64
}

// FixedAdvance measures text as a run of equally wide characters. It is the
// default Measurer when no font is available.
type FixedAdvance float64

// MeasureWidth implements Measurer.
func (a FixedAdvance) MeasureWidth(text string) float64 {
	return float64(a) * float64(runeLen(text))
}

// Logger receives the engine's debug trail.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// Config holds the layout geometry. All sizes are canvas pixels.
type Config struct {
	OutputWidth  int     `json:"output_width"`
	OutputHeight int     `json:"output_height"`
	TargetAspect float64 `json:"target_aspect"`

	MaxLineLength int     `json:"max_line_length"`
	LineHeight    float64 `json:"line_height"`

	DedupThreshold float64 `json:"dedup_threshold"`
	// MinMatchScore treats weaker region matches as no match. Zero disables
	// the floor so every entry matches whenever regions exist.
	MinMatchScore float64 `json:"min_match_score"`

	// MarginX and MarginTop inflate background boxes left/right and above
	// the anchor, which is a text baseline.
	MarginX   float64 `json:"margin_x"`
	MarginTop float64 `json:"margin_top"`

	// StartX and StartY seed the cursor at the beginning of every pass.
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
}

// Defaults for a 640x400 frame shown at 3x on a 30:17 display.
const (
	DefaultOutputWidth    = 640 * 3
	DefaultOutputHeight   = 400 * 3
	DefaultTargetAspect   = 30.0 / 17.0
	DefaultMaxLineLength  = 60
	DefaultLineHeight     = 56
	DefaultDedupThreshold = 0.7
)

// DefaultConfig returns the geometry the overlay was tuned for.
func DefaultConfig() Config {
	return Config{
		OutputWidth:    DefaultOutputWidth,
		OutputHeight:   DefaultOutputHeight,
		TargetAspect:   DefaultTargetAspect,
		MaxLineLength:  DefaultMaxLineLength,
		LineHeight:     DefaultLineHeight,
		DedupThreshold: DefaultDedupThreshold,
		MarginX:        20,
		MarginTop:      40,
		StartX:         40,
		StartY:         DefaultOutputHeight - 100,
	}
}

// Validate checks that the geometry is usable. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if c.OutputWidth <= 0 || c.OutputHeight <= 0 {
		return invalidConfig("output size must be positive, got %dx%d", c.OutputWidth, c.OutputHeight)
	}
	if !positive(c.TargetAspect) {
		return invalidConfig("target aspect must be positive, got %v", c.TargetAspect)
	}
	if c.MaxLineLength < 2 {
		return invalidConfig("max line length must be at least 2, got %d", c.MaxLineLength)
	}
	if !positive(c.LineHeight) {
		return invalidConfig("line height must be positive, got %v", c.LineHeight)
	}
	if err := checkThreshold("dedup threshold", c.DedupThreshold); err != nil {
		return err
	}
	return checkThreshold("min match score", c.MinMatchScore)
}

// InitialCursor returns the cursor every pass starts from.
func (c Config) InitialCursor() Cursor {
	return Cursor{X: c.StartX, Y: c.StartY}
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Engine lays out translation entries over OCR regions. It holds no per-image
// state and is safe for concurrent use as long as the plugged Measurer is.
type Engine struct {
	cfg      Config
	sim      SimilarityFunc
	wrapper  Wrapper
	measurer Measurer
	log      Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSimilarity replaces the Jaro-Winkler scorer used for dedup and matching.
func WithSimilarity(sim SimilarityFunc) Option {
	return func(e *Engine) { e.sim = sim }
}

// WithWrapper replaces the character-count line breaker.
func WithWrapper(w Wrapper) Option {
	return func(e *Engine) { e.wrapper = w }
}

// WithMeasurer sets the rendered-width measure used for line backgrounds.
func WithMeasurer(m Measurer) Option {
	return func(e *Engine) { e.measurer = m }
}

// WithLogger routes the engine's debug trail to l.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine validates cfg and builds an Engine. Without options it uses
// Jaro-Winkler similarity, CharWrapper{cfg.MaxLineLength} and a FixedAdvance
// of 0.6 line heights per character.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		sim:      JaroWinkler,
		wrapper:  CharWrapper{MaxLen: cfg.MaxLineLength},
		measurer: FixedAdvance(cfg.LineHeight * 0.6),
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sim == nil {
		return nil, invalidConfig("similarity scorer is nil")
	}
	if e.wrapper == nil || e.measurer == nil {
		return nil, invalidConfig("wrapper and measurer are required")
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	return e, nil
}

// Config returns the engine's geometry.
func (e *Engine) Config() Config {
	return e.cfg
}

// Prepare applies the entry filter and the deduplicator.
func (e *Engine) Prepare(entries []TranslationEntry) ([]TranslationEntry, error) {
	translated := FilterUntranslated(entries)
	kept, err := DedupeEntries(translated, e.sim, e.cfg.DedupThreshold)
	if err != nil {
		return nil, err
	}
	e.log.Debug("prepared entries",
		"input", len(entries), "untranslated", len(entries)-len(translated),
		"duplicates", len(translated)-len(kept))
	return kept, nil
}

// Layout runs one pass over an inputWidth x inputHeight image: it prepares
// the entries, then places each survivor in order, threading a cursor that
// starts at Config.InitialCursor. The plan holds exactly one instruction per
// surviving entry, in input order.
func (e *Engine) Layout(entries []TranslationEntry, regions []OCRRegion, inputWidth, inputHeight int) (*Plan, error) {
	if inputWidth <= 0 || inputHeight <= 0 {
		return nil, invalidConfig("input size must be positive, got %dx%d", inputWidth, inputHeight)
	}

	kept, err := e.Prepare(entries)
	if err != nil {
		return nil, err
	}

	vp := NewViewport(float64(inputWidth), float64(inputHeight),
		float64(e.cfg.OutputWidth), float64(e.cfg.OutputHeight), e.cfg.TargetAspect)

	plan := &Plan{
		Instructions: make([]DrawInstruction, 0, len(kept)),
		Removed:      len(entries) - len(kept),
	}
	cursor := e.cfg.InitialCursor()
	for _, entry := range kept {
		var inst DrawInstruction
		inst, cursor = e.place(entry, regions, vp, cursor)
		if inst.Matched {
			plan.Matched++
		}
		plan.Instructions = append(plan.Instructions, inst)
	}
	plan.Cursor = cursor
	return plan, nil
}

// place lays out a single entry and returns the cursor for the next one.
func (e *Engine) place(entry TranslationEntry, regions []OCRRegion, vp Viewport, cursor Cursor) (DrawInstruction, Cursor) {
	inst := DrawInstruction{Location: entry.Location}

	match, ok := BestRegion(entry.Original, regions, e.sim)
	if ok && match.Score >= e.cfg.MinMatchScore {
		topLeft := vp.Map(match.Region.TopLeft())
		bottomRight := vp.Map(match.Region.BottomRight())
		cursor = cursor.Advance(topLeft)

		top := topLeft.Y - e.cfg.MarginTop
		inst.Matched = true
		inst.MatchScore = match.Score
		inst.RegionText = match.Region.Text
		inst.Background = &Rect{
			X: topLeft.X - e.cfg.MarginX,
			Y: top,
			W: bottomRight.X + e.cfg.MarginX - topLeft.X,
			H: (bottomRight.Y - top) * 2,
		}
		e.log.Debug("matched OCR segment",
			"text", match.Region.Text, "score", match.Score, "x", topLeft.X, "y", topLeft.Y)
	} else if ok {
		e.log.Debug("OCR match below floor, reusing previous coordinates",
			"score", match.Score, "x", cursor.X, "y", cursor.Y)
	} else {
		e.log.Debug("no OCR regions, reusing previous coordinates", "x", cursor.X, "y", cursor.Y)
	}

	anchor := cursor.Point()
	y := anchor.Y
	for _, raw := range WrapText(entry.Translation, e.wrapper) {
		text := normalizeLine(raw)
		inst.Lines = append(inst.Lines, Line{
			Text: text,
			X:    anchor.X,
			Y:    y,
			Background: Rect{
				X: anchor.X - e.cfg.MarginX,
				Y: y - e.cfg.MarginTop,
				W: e.measurer.MeasureWidth(text),
				H: e.cfg.LineHeight,
			},
		})
		y += e.cfg.LineHeight
	}
	if inst.Lines == nil {
		inst.Lines = []Line{}
	}
	return inst, cursor
}
