// Package overlay implements the matching-and-layout engine that places
// translated text over the regions an OCR pass detected in a screenshot.
//
// The engine consumes two externally produced lists, the translation entries
// returned by a vision language model and the text regions returned by an OCR
// engine, and produces ordered draw instructions for a rasterizer. It never
// performs OCR, never calls a model and never touches the network.
//
// # Pipeline
//
// Each image is processed by a fixed five stage pipeline:
//
//  1. Entry filter: drop entries whose source and target language match.
//  2. Deduplicator: drop entries whose translation is too similar to an
//     entry that was already kept.
//  3. Region matcher: pick the OCR region whose text best matches the entry's
//     original text.
//  4. Coordinate mapper: project the region corners from input image space
//     into a letterboxed viewport on the output canvas.
//  5. Line layout: wrap the translation into lines and stack them vertically
//     from the anchor.
//
// # Layout Cursor
//
// Entries without a region match reuse the last successfully placed anchor.
// The cursor is created fresh for every Engine.Layout call and threaded
// through the entries by value, so an Engine may be shared by concurrent
// callers without one image's layout leaking into another's.
//
// # Width Measures
//
// Line breaking and background sizing are deliberately separate capabilities.
// A Wrapper decides where lines break (by character count by default) and a
// Measurer reports how wide a line renders (font metrics in production). The
// two can disagree; the rasterizer draws whatever the Measurer reported.
//
// # Coordinate System
//
// All coordinates are float64 pixels with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Text positions are
// baseline origins, as a canvas fillText call would expect.
package overlay
