package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/overlay-translate-mcp/internal/imaging"
	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "overlay_layout", "ocr_regions").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Layout
	case "overlay_layout":
		return s.handleOverlayLayout(args)
	case "overlay_render":
		return s.handleOverlayRender(args)
	case "wrap_text":
		return s.handleWrapText(args)

	// Full pipeline
	case "overlay_translate_image":
		return s.handleTranslateImage(ctx, args)

	// Inputs
	case "ocr_regions":
		return s.handleOCRRegions(ctx, args)
	case "image_load":
		return s.handleImageLoad(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unwrapJSONString lets clients pass a model reply verbatim as a JSON string
// instead of an embedded array.
func unwrapJSONString(raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return trimmed, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func isAbsent(raw []byte) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// === Layout Handlers ===

type layoutArgs struct {
	Entries     json.RawMessage `json:"entries"`
	Regions     json.RawMessage `json:"regions"`
	InputWidth  int             `json:"input_width"`
	InputHeight int             `json:"input_height"`
	Path        string          `json:"path"`
}

// layout parses layout arguments and runs the engine.
func (s *Server) layout(a *layoutArgs) (*overlay.Plan, error) {
	rawEntries, err := unwrapJSONString(a.Entries)
	if err != nil {
		return nil, fmt.Errorf("entries: %w", err)
	}
	if isAbsent(rawEntries) {
		return nil, fmt.Errorf("entries is required")
	}
	entries, err := overlay.ParseEntries(rawEntries)
	if err != nil {
		return nil, err
	}

	regions := []overlay.OCRRegion{}
	rawRegions, err := unwrapJSONString(a.Regions)
	if err != nil {
		return nil, fmt.Errorf("regions: %w", err)
	}
	if !isAbsent(rawRegions) {
		if regions, err = overlay.ParseRegions(rawRegions); err != nil {
			return nil, err
		}
	}

	if (a.InputWidth <= 0 || a.InputHeight <= 0) && a.Path != "" {
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		a.InputWidth, a.InputHeight = img.Bounds().Dx(), img.Bounds().Dy()
	}

	return s.pipeline.Engine.Layout(entries, regions, a.InputWidth, a.InputHeight)
}

func (s *Server) handleOverlayLayout(args json.RawMessage) (interface{}, error) {
	var a layoutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.layout(&a)
}

type renderArgs struct {
	layoutArgs
	OutputPath string `json:"output_path"`
	Composite  bool   `json:"composite"`
}

// RenderResult contains a draw plan and its rasterized image.
type RenderResult struct {
	Plan        *overlay.Plan `json:"plan"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	OutputPath  string        `json:"output_path,omitempty"`
	ImageBase64 string        `json:"image_base64,omitempty"`
	MimeType    string        `json:"mime_type,omitempty"`
}

func (s *Server) handleOverlayRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Composite && a.Path == "" {
		return nil, fmt.Errorf("composite requires path")
	}

	// The screenshot under the overlay fixes the input size, so the boxes
	// are mapped the same way the frame is scaled.
	var src image.Image
	if a.Composite {
		var err error
		if src, err = s.cache.Load(a.Path); err != nil {
			return nil, err
		}
		a.InputWidth, a.InputHeight = src.Bounds().Dx(), src.Bounds().Dy()
	}

	plan, err := s.layout(&a.layoutArgs)
	if err != nil {
		return nil, err
	}

	cfg := s.pipeline.Engine.Config()
	var img image.Image = s.pipeline.Renderer.Render(plan, cfg.OutputWidth, cfg.OutputHeight)
	if src != nil {
		vp := overlay.NewViewport(float64(a.InputWidth), float64(a.InputHeight),
			float64(cfg.OutputWidth), float64(cfg.OutputHeight), cfg.TargetAspect)
		img = imaging.Composite(imaging.FitViewport(src, vp, cfg.OutputWidth, cfg.OutputHeight), img)
	}

	res := &RenderResult{Plan: plan, Width: cfg.OutputWidth, Height: cfg.OutputHeight}
	if err := emitImage(img, a.OutputPath, res); err != nil {
		return nil, err
	}
	return res, nil
}

// emitImage writes img to outputPath, or base64-encodes it into res when no
// path is given.
func emitImage(img image.Image, outputPath string, res *RenderResult) error {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return err
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		res.OutputPath = outputPath
		return nil
	}
	res.ImageBase64 = base64.StdEncoding.EncodeToString(data)
	res.MimeType = "image/png"
	return nil
}

type wrapTextArgs struct {
	Text          string `json:"text"`
	MaxLineLength int    `json:"max_line_length"`
}

// WrapTextResult contains wrapped lines.
type WrapTextResult struct {
	Lines []string `json:"lines"`
	Count int      `json:"count"`
}

func (s *Server) handleWrapText(args json.RawMessage) (interface{}, error) {
	var a wrapTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxLineLength == 0 {
		a.MaxLineLength = s.pipeline.Engine.Config().MaxLineLength
	}
	if a.MaxLineLength < 2 {
		return nil, fmt.Errorf("max_line_length must be at least 2, got %d", a.MaxLineLength)
	}

	lines := overlay.WrapText(a.Text, overlay.CharWrapper{MaxLen: a.MaxLineLength})
	if lines == nil {
		lines = []string{}
	}
	return &WrapTextResult{Lines: lines, Count: len(lines)}, nil
}

// === Pipeline Handlers ===

type imageSourceArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

// read returns the screenshot bytes from path or the base64 payload.
func (a imageSourceArgs) read() ([]byte, error) {
	if a.Path != "" {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		return data, nil
	}
	if a.ImageBase64 != "" {
		return imaging.DecodeBase64(a.ImageBase64)
	}
	return nil, fmt.Errorf("path or image_base64 is required")
}

type translateImageArgs struct {
	imageSourceArgs
	OutputPath string `json:"output_path"`
	Composite  *bool  `json:"composite"`
}

// TranslateImageResult summarizes a full pipeline pass.
type TranslateImageResult struct {
	PassID      string                     `json:"pass_id"`
	InputWidth  int                        `json:"input_width"`
	InputHeight int                        `json:"input_height"`
	CacheHit    bool                       `json:"cache_hit"`
	Entries     []overlay.TranslationEntry `json:"entries"`
	RenderResult
}

func (s *Server) handleTranslateImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a translateImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := a.read()
	if err != nil {
		return nil, err
	}

	p := *s.pipeline
	if a.Composite != nil {
		p.Composite = *a.Composite
	}
	res, err := p.Run(ctx, data)
	if err != nil {
		return nil, err
	}

	cfg := p.Engine.Config()
	out := &TranslateImageResult{
		PassID:      res.PassID,
		InputWidth:  res.InputWidth,
		InputHeight: res.InputHeight,
		CacheHit:    res.CacheHit,
		Entries:     res.Entries,
		RenderResult: RenderResult{
			Plan:   res.Plan,
			Width:  cfg.OutputWidth,
			Height: cfg.OutputHeight,
		},
	}
	if err := emitImage(res.Image, a.OutputPath, &out.RenderResult); err != nil {
		return nil, err
	}
	return out, nil
}

// OCRRegionsResult lists recognized text lines.
type OCRRegionsResult struct {
	Regions []overlay.OCRRegion `json:"regions"`
	Count   int                 `json:"count"`
}

func (s *Server) handleOCRRegions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := a.read()
	if err != nil {
		return nil, err
	}
	regions, err := s.pipeline.Recognizer.Recognize(ctx, data)
	if err != nil {
		return nil, err
	}
	return &OCRRegionsResult{Regions: regions, Count: len(regions)}, nil
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return imaging.Inspect(data)
}
