package render

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/JacksonKontny/med2image/internal/models"
)

// TestNewRenderer verifies colormap validation.
func TestNewRenderer(t *testing.T) {
	if _, err := NewRenderer(ColormapGray, 90); err != nil {
		t.Errorf("Unexpected error for gray colormap: %v", err)
	}
	if _, err := NewRenderer(ColormapGrayReversed, 90); err != nil {
		t.Errorf("Unexpected error for reversed colormap: %v", err)
	}
	if _, err := NewRenderer("viridis", 90); err == nil {
		t.Error("Expected error for unknown colormap, got nil")
	}
}

// TestSupportedType verifies the encodable format list.
func TestSupportedType(t *testing.T) {
	for _, ext := range []string{"png", "jpg", "jpeg", "tif", "tiff"} {
		if !SupportedType(ext) {
			t.Errorf("Expected %q to be supported", ext)
		}
	}
	for _, ext := range []string{"gif", "bmp", "none", ""} {
		if SupportedType(ext) {
			t.Errorf("Expected %q to be unsupported", ext)
		}
	}
}

// TestRasterize verifies normalization to the slice's intensity range and
// the row/column to y/x mapping.
func TestRasterize(t *testing.T) {
	// Intensities 10..40; min maps to black, max to white.
	s := models.NewSlice2D(mat.NewDense(2, 2, []float64{10, 20, 30, 40}))

	r, err := NewRenderer(ColormapGray, 90)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	img := r.Rasterize(s)
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	if got := img.Gray16At(0, 0).Y; got != 0 {
		t.Errorf("Expected minimum intensity to map to 0, got %d", got)
	}
	// Matrix (1,1)=40 is the maximum, at image x=1 y=1.
	if got := img.Gray16At(1, 1).Y; got != 65535 {
		t.Errorf("Expected maximum intensity to map to 65535, got %d", got)
	}
	// Matrix (0,1)=20 lands at image x=1 y=0, a third of the range.
	got := img.Gray16At(1, 0).Y
	want := uint16(65535 / 3)
	if diff := int(got) - int(want); diff < -1 || diff > 1 {
		t.Errorf("Expected intensity ~%d at (1,0), got %d", want, got)
	}
}

// TestRasterizeReversed verifies the inverted colormap.
func TestRasterizeReversed(t *testing.T) {
	s := models.NewSlice2D(mat.NewDense(1, 2, []float64{0, 1}))

	r, err := NewRenderer(ColormapGrayReversed, 90)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	img := r.Rasterize(s)
	if got := img.Gray16At(0, 0).Y; got != 65535 {
		t.Errorf("Expected reversed minimum to map to 65535, got %d", got)
	}
	if got := img.Gray16At(1, 0).Y; got != 0 {
		t.Errorf("Expected reversed maximum to map to 0, got %d", got)
	}
}

// TestRasterizeConstant verifies that a constant slice does not divide
// by zero and renders uniformly.
func TestRasterizeConstant(t *testing.T) {
	s := models.NewSlice2D(mat.NewDense(2, 2, []float64{5, 5, 5, 5}))

	r, err := NewRenderer(ColormapGray, 90)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	img := r.Rasterize(s)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.Gray16At(x, y).Y; got != 0 {
				t.Errorf("Expected constant slice to render black, got %d at (%d,%d)", got, x, y)
			}
		}
	}
}

// TestSave verifies encoding to disk for each supported format.
func TestSave(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "render-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s := models.NewSlice2D(mat.NewDense(3, 4, []float64{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	}))

	r, err := NewRenderer(ColormapGray, 90)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	for _, fileType := range []string{"png", "jpg", "jpeg", "tif", "tiff"} {
		path := filepath.Join(tempDir, "slice."+fileType)
		if err := r.Save(s, path, fileType); err != nil {
			t.Errorf("Save as %s failed: %v", fileType, err)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Saved %s file does not exist: %v", fileType, err)
		}
	}

	// Re-decode the PNG and check dimensions: 3 rows x 4 cols -> 4x3 image.
	data, err := os.ReadFile(filepath.Join(tempDir, "slice.png"))
	if err != nil {
		t.Fatalf("Failed to read saved PNG: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode saved PNG: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("Expected 4x3 PNG, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Unsupported type fails.
	if err := r.Save(s, filepath.Join(tempDir, "slice.bmp"), "bmp"); err == nil {
		t.Error("Expected error for unsupported file type, got nil")
	}
}

// TestPreview verifies the ASCII rendering shape and intensity mapping.
func TestPreview(t *testing.T) {
	s := models.NewSlice2D(mat.NewDense(2, 3, []float64{
		0, 0, 0,
		9, 9, 9,
	}))

	var buf bytes.Buffer
	if err := Preview(&buf, s, 80); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 preview line for 2 rows, got %d", len(lines))
	}
	if lines[0] != "   " {
		t.Errorf("Expected dark row rendered as spaces, got %q", lines[0])
	}
}
