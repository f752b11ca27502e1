package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceProperties describe where a tool reads its screenshot from.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a PNG screenshot",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded PNG screenshot (a data URL prefix is accepted). Used when path is empty",
		},
	}
}

var entriesSchema = map[string]interface{}{
	"type":        "array",
	"description": "Translation entries as returned by the vision model",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"location":            map[string]interface{}{"type": "string"},
			"original":            map[string]interface{}{"type": "string"},
			"originalLanguage":    map[string]interface{}{"type": "string"},
			"translation":         map[string]interface{}{"type": "string"},
			"translationLanguage": map[string]interface{}{"type": "string"},
		},
		"required": []string{"location", "original", "originalLanguage", "translation", "translationLanguage"},
	},
}

var regionsSchema = map[string]interface{}{
	"type":        "array",
	"description": "OCR text regions; box holds four [x, y] corners starting top-left, clockwise",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{"type": "string"},
			"box": map[string]interface{}{
				"type":     "array",
				"minItems": 4,
				"maxItems": 4,
				"items": map[string]interface{}{
					"type":     "array",
					"minItems": 2,
					"maxItems": 2,
					"items":    map[string]interface{}{"type": "number"},
				},
			},
		},
		"required": []string{"text", "box"},
	},
}

func layoutProperties() map[string]interface{} {
	return map[string]interface{}{
		"entries": entriesSchema,
		"regions": regionsSchema,
		"input_width": map[string]interface{}{
			"type":        "integer",
			"description": "Width of the source screenshot. Optional when path is given",
		},
		"input_height": map[string]interface{}{
			"type":        "integer",
			"description": "Height of the source screenshot. Optional when path is given",
		},
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Optional screenshot path, used for its dimensions",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	renderProps := layoutProperties()
	renderProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Write the PNG here instead of returning it base64-encoded",
	}
	renderProps["composite"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw over the letterboxed screenshot from path instead of a transparent canvas. Default false",
		"default":     false,
	}

	translateProps := imageSourceProperties()
	translateProps["output_path"] = renderProps["output_path"]
	translateProps["composite"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw over the letterboxed screenshot. Defaults to the server setting",
	}

	return []Tool{
		// Layout
		{
			Name:        "overlay_layout",
			Description: "Lay out translated text over OCR regions. Drops untranslated and near-duplicate entries, matches each entry to its most similar OCR region, maps coordinates into the output canvas and wraps text into lines. Returns the draw plan without rendering.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": layoutProperties(),
				"required":   []string{"entries", "regions"},
			},
		},
		{
			Name:        "overlay_render",
			Description: "Lay out and rasterize translated text into a PNG overlay. Returns the draw plan and the image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProps,
				"required":   []string{"entries", "regions"},
			},
		},
		{
			Name:        "wrap_text",
			Description: "Wrap text into lines of at most max_line_length characters, hyphenating words that are too long. Newlines start new paragraphs.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to wrap",
					},
					"max_line_length": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum characters per line. Defaults to the server setting",
					},
				},
				"required": []string{"text"},
			},
		},

		// Full pipeline
		{
			Name:        "overlay_translate_image",
			Description: "Run OCR and model translation on a screenshot, then lay out and render the translated overlay.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": translateProps,
			},
		},

		// Inputs
		{
			Name:        "ocr_regions",
			Description: "Find text lines in a screenshot with Tesseract. Returns each line's text and corner points.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
