// Package pipeline runs one full overlay pass for a screenshot: OCR and
// translation in parallel, then layout and rasterization.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/overlay-translate-mcp/internal/cache"
	"github.com/ironsheep/overlay-translate-mcp/internal/imaging"
	"github.com/ironsheep/overlay-translate-mcp/internal/logging"
	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
	"github.com/ironsheep/overlay-translate-mcp/internal/render"
)

// Recognizer finds text lines in an encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte) ([]overlay.OCRRegion, error)
}

// Translator reads and translates the text in an encoded image.
type Translator interface {
	Translate(ctx context.Context, png []byte) ([]overlay.TranslationEntry, error)
	Model() string
}

// Pipeline wires the stages together. All fields except Cache and Log are
// required; use New to get defaults for those.
type Pipeline struct {
	Engine     *overlay.Engine
	Renderer   *render.Renderer
	Recognizer Recognizer
	Translator Translator
	Cache      cache.Cache
	Log        *logging.Logger

	// Composite draws the overlay over the letterboxed source image instead
	// of returning it on a transparent canvas.
	Composite bool
}

// New creates a Pipeline with a no-op cache and a silent logger.
func New(engine *overlay.Engine, renderer *render.Renderer, rec Recognizer, tr Translator) *Pipeline {
	return &Pipeline{
		Engine:     engine,
		Renderer:   renderer,
		Recognizer: rec,
		Translator: tr,
		Cache:      cache.Nop{},
		Log:        logging.Nop(),
	}
}

// Result is the outcome of one pass.
type Result struct {
	PassID      string                     `json:"pass_id"`
	InputWidth  int                        `json:"input_width"`
	InputHeight int                        `json:"input_height"`
	Entries     []overlay.TranslationEntry `json:"entries"`
	Regions     []overlay.OCRRegion        `json:"regions"`
	Plan        *overlay.Plan              `json:"plan"`
	CacheHit    bool                       `json:"cache_hit"`
	Image       image.Image                `json:"-"`
}

// Run processes a PNG screenshot. Only PNG input is accepted because the
// input size is read from the PNG header.
func (p *Pipeline) Run(ctx context.Context, data []byte) (*Result, error) {
	start := time.Now()
	res := &Result{PassID: uuid.NewString()}
	log := p.Log.With("pass", res.PassID)

	w, h, err := imaging.PNGSize(data)
	if err != nil {
		return nil, err
	}
	res.InputWidth, res.InputHeight = w, h

	var (
		wg     sync.WaitGroup
		ocrErr error
		trErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.Regions, ocrErr = p.Recognizer.Recognize(ctx, data)
	}()
	go func() {
		defer wg.Done()
		res.Entries, res.CacheHit, trErr = p.translate(ctx, data, log)
	}()
	wg.Wait()

	if ocrErr != nil {
		return nil, fmt.Errorf("OCR failed: %w", ocrErr)
	}
	if trErr != nil {
		return nil, fmt.Errorf("translation failed: %w", trErr)
	}
	log.Debug("stages finished", "regions", len(res.Regions), "entries", len(res.Entries), "cache_hit", res.CacheHit)

	res.Plan, err = p.Engine.Layout(res.Entries, res.Regions, w, h)
	if err != nil {
		return nil, err
	}
	log.Info("layout complete",
		"instructions", len(res.Plan.Instructions), "matched", res.Plan.Matched, "removed", res.Plan.Removed)

	cfg := p.Engine.Config()
	canvas := p.Renderer.Render(res.Plan, cfg.OutputWidth, cfg.OutputHeight)
	res.Image = canvas
	if p.Composite {
		src, _, err := imaging.Decode(data)
		if err != nil {
			return nil, err
		}
		vp := overlay.NewViewport(float64(w), float64(h),
			float64(cfg.OutputWidth), float64(cfg.OutputHeight), cfg.TargetAspect)
		res.Image = imaging.Composite(imaging.FitViewport(src, vp, cfg.OutputWidth, cfg.OutputHeight), canvas)
	}

	log.Info("pass complete", "elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// translate consults the cache before asking the model. Cache failures are
// logged and otherwise ignored.
func (p *Pipeline) translate(ctx context.Context, data []byte, log *logging.Logger) ([]overlay.TranslationEntry, bool, error) {
	key := cache.Key(p.Translator.Model(), data)

	entries, ok, err := p.Cache.Get(ctx, key)
	if err != nil {
		log.Warn("cache lookup failed", "error", err)
	}
	if ok {
		return entries, true, nil
	}

	entries, err = p.Translator.Translate(ctx, data)
	if err != nil {
		return nil, false, err
	}
	if err := p.Cache.Set(ctx, key, entries); err != nil {
		log.Warn("cache store failed", "error", err)
	}
	return entries, false, nil
}

// EncodePNG encodes the result image.
func (r *Result) EncodePNG() ([]byte, error) {
	return imaging.EncodePNG(r.Image)
}
