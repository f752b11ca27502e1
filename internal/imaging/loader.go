package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"
)

// ErrNotPNG is returned by PNGSize when the data does not start with a PNG
// signature followed by an IHDR chunk.
var ErrNotPNG = errors.New("not a PNG file")

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ImageCache provides thread-safe caching of images loaded from disk.
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). The MCP tools that accept file paths share one cache so repeated
// layout and render calls on the same screenshot decode it once.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or reads and decodes it from disk.
//
// Parameters:
//   - path: File path to the image. Supported formats are PNG, JPEG, and GIF.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: Non-nil if the file cannot be read or decoded.
//
// The image is cached under the exact path string provided.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Decode decodes PNG, JPEG or GIF data and reports the detected format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeBase64 decodes a base64 image payload. A "data:image/...;base64,"
// URL prefix is accepted and stripped.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = payload
	}
	if s == "" {
		return nil, fmt.Errorf("empty image payload")
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	return data, nil
}

// PNGSize reads the width and height from a PNG header without decoding the
// image body.
//
// The first chunk after the 8-byte signature must be IHDR, whose first eight
// data bytes hold the big-endian width and height.
func PNGSize(data []byte) (width, height int, err error) {
	if len(data) < 24 || !bytes.Equal(data[:8], pngSignature) || string(data[12:16]) != "IHDR" {
		return 0, 0, ErrNotPNG
	}
	w := binary.BigEndian.Uint32(data[16:20])
	h := binary.BigEndian.Uint32(data[20:24])
	return int(w), int(h), nil
}

// ImageInfo contains metadata about a decoded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoded format: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded color model carries alpha.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded image in bytes.
	SizeBytes int `json:"size_bytes"`
}

// Inspect decodes data and returns its metadata.
func Inspect(data []byte) (*ImageInfo, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted:
		hasAlpha = true
	}

	b := img.Bounds()
	return &ImageInfo{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Format:    format,
		HasAlpha:  hasAlpha,
		SizeBytes: len(data),
	}, nil
}
