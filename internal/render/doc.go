// Package render rasterizes an overlay plan onto a transparent canvas.
//
// Each draw instruction paints its matched-region background first, then
// every line's background rectangle followed by the line's text. Text is
// drawn with a dark outline under a bright fill so it stays legible over any
// game frame. Line coordinates are baselines, as produced by the overlay
// layout engine.
//
// The same Face that draws the text measures line widths for the layout
// engine, so background rectangles always fit the rendered glyphs.
package render
