// Package imaging provides the raster plumbing around the overlay engine:
// decoding uploaded screenshots, probing PNG headers, preparing images for
// OCR, encoding results and compositing overlays back onto their source.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. This matches the
// coordinate system used by the overlay package.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless
// and never mutate their inputs.
//
// # Color Representation
//
// Colors are written as "#RRGGBB" or "#RRGGBBAA" hex strings. When the alpha
// byte is omitted the color is fully opaque.
package imaging
