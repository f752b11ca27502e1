// Package ocr finds text lines in screenshots using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) and reports
// each recognized line as an overlay.OCRRegion: the line text plus a
// four-corner quadrilateral in input pixel coordinates, corners ordered
// top-left, top-right, bottom-right, bottom-left.
//
// # Prerequisites
//
// Tesseract and the language data for every configured language must be
// installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-jpn
//   - macOS: brew install tesseract tesseract-lang
//
// Languages are given in Tesseract's "+" syntax, e.g. "jpn+eng".
//
// # Preprocessing
//
// Images can be upscaled before recognition, which helps with small UI
// fonts. Returned boxes are always scaled back to the original image size.
//
// # Thread Safety
//
// A Recognizer holds only settings. Each Recognize call creates its own
// Tesseract client, so concurrent calls are safe.
package ocr
