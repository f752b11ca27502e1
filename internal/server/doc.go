// Package server exposes the overlay pipeline over MCP and HTTP.
//
// # MCP
//
// The MCP server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Layout tools:
//   - overlay_layout: Filter, deduplicate, match and wrap entries into a draw plan
//   - overlay_render: Same, plus rasterize the plan to PNG
//   - wrap_text: Wrap text the way the layout engine does
//
// Pipeline tools:
//   - overlay_translate_image: OCR, translate, lay out and render a screenshot
//   - ocr_regions: Tesseract text lines with corner points
//   - image_load: Image dimensions and format
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data.
//
// # HTTP
//
// POST / accepts {"image": "<base64 PNG>"} and replies {"image": "<base64
// PNG>"} with the rendered overlay, or {"error": "..."} with a 4xx/5xx
// status. GET /healthz reports liveness.
//
// # Image Caching
//
// Images referenced by path are decoded once and cached for the lifetime of
// the server process.
package server
