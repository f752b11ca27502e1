package render

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func loadTestFace(t *testing.T) *Face {
	t.Helper()
	face, err := LoadFace("", 56)
	if err != nil {
		t.Fatalf("LoadFace failed: %v", err)
	}
	t.Cleanup(func() { face.Close() })
	return face
}

func TestLoadFace_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	face, err := LoadFace(path, 24)
	if err != nil {
		t.Fatalf("LoadFace failed: %v", err)
	}
	defer face.Close()

	if face.Size() != 24 {
		t.Errorf("Size: got %v, want 24", face.Size())
	}
}

func TestLoadFace_Errors(t *testing.T) {
	if _, err := LoadFace("/nonexistent/font.ttf", 24); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := ParseFace([]byte("not a font"), 24); err == nil {
		t.Error("expected error for invalid font data")
	}
	if _, err := ParseFace(goregular.TTF, 0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestFace_MeasureWidth(t *testing.T) {
	face := loadTestFace(t)

	if w := face.MeasureWidth(""); w != 0 {
		t.Errorf("empty string: got %v, want 0", w)
	}

	one := face.MeasureWidth("Hello")
	two := face.MeasureWidth("Hello Hello")
	if one <= 0 {
		t.Fatalf("expected positive width, got %v", one)
	}
	if two <= one {
		t.Errorf("longer text should be wider: %v <= %v", two, one)
	}
	// A 56px face is nowhere near 56px per character for Latin text.
	if one >= 5*56 {
		t.Errorf("width %v implausibly large", one)
	}
}

func TestFace_ConcurrentMeasure(t *testing.T) {
	face := loadTestFace(t)
	want := face.MeasureWidth("concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := face.MeasureWidth("concurrent"); got != want {
				t.Errorf("got %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}
