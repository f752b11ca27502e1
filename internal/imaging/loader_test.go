package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createInMemoryImage returns a solid width x height image.
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// encodeTestPNG encodes img as PNG or fails the test.
func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// createTestImage writes a solid PNG into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	if err := os.WriteFile(path, encodeTestPNG(t, createInMemoryImage(width, height, c)), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", b.Dx(), b.Dy())
	}

	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	bad := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 10, 10, color.RGBA{0, 0, 255, 255})

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(imgPath)
	cache.Evict("/nonexistent/path")

	cache.mu.RLock()
	_, exists := cache.images[imgPath]
	cache.mu.RUnlock()
	if exists {
		t.Error("Evict did not remove image from cache")
	}

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Clear()

	cache.mu.RLock()
	count := len(cache.images)
	cache.mu.RUnlock()
	if count != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", count)
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestPNGSize(t *testing.T) {
	data := encodeTestPNG(t, createInMemoryImage(1280, 720, color.Black))

	w, h, err := PNGSize(data)
	if err != nil {
		t.Fatalf("PNGSize failed: %v", err)
	}
	if w != 1280 || h != 720 {
		t.Errorf("got %dx%d, want 1280x720", w, h)
	}
}

func TestPNGSize_NotPNG(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, createInMemoryImage(8, 8, color.White), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not a png, but long enough")},
		{"jpeg", jpg.Bytes()},
		{"truncated", encodeTestPNG(t, createInMemoryImage(4, 4, color.White))[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := PNGSize(tt.data); !errors.Is(err, ErrNotPNG) {
				t.Errorf("expected ErrNotPNG, got %v", err)
			}
		})
	}
}

func TestDecodeBase64(t *testing.T) {
	raw := encodeTestPNG(t, createInMemoryImage(3, 2, color.White))
	enc := base64.StdEncoding.EncodeToString(raw)

	for _, in := range []string{enc, "data:image/png;base64," + enc, "  " + enc + "\n"} {
		got, err := DecodeBase64(in)
		if err != nil {
			t.Fatalf("DecodeBase64 failed: %v", err)
		}
		if !bytes.Equal(got, raw) {
			t.Error("decoded bytes differ from input")
		}
	}

	for _, bad := range []string{"", "data:image/png;base64", "***"} {
		if _, err := DecodeBase64(bad); err == nil {
			t.Errorf("DecodeBase64(%q) should fail", bad)
		}
	}
}

func TestInspect(t *testing.T) {
	data := encodeTestPNG(t, createInMemoryImage(200, 150, color.NRGBA{255, 128, 64, 255}))

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.SizeBytes != len(data) {
		t.Errorf("SizeBytes: got %d, want %d", info.SizeBytes, len(data))
	}

	if _, err := Inspect([]byte("garbage")); err == nil {
		t.Error("Inspect should fail for invalid data")
	}
}
