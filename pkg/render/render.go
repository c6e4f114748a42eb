// Package render turns extracted 2D slices into grayscale raster files.
// Intensities are normalized to the slice's min/max range, mapped through
// a grayscale colormap, and encoded as PNG, JPEG, or TIFF.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/floats"

	"github.com/JacksonKontny/med2image/internal/models"
)

// Grayscale colormap identifiers. Gray maps low intensities to black;
// GrayReversed inverts the ramp.
const (
	ColormapGray         = "gray"
	ColormapGrayReversed = "gray_r"
)

// DefaultJPEGQuality matches the quality the project has always used for
// JPEG output.
const DefaultJPEGQuality = 90

// SupportedType reports whether ext (without dot) names an output format
// the renderer can encode.
func SupportedType(ext string) bool {
	switch ext {
	case "png", "jpg", "jpeg", "tif", "tiff":
		return true
	}
	return false
}

// Renderer rasterizes slices with a fixed colormap and encoder settings.
type Renderer struct {
	// colormap is one of the grayscale colormap identifiers
	colormap string

	// jpegQuality is the quality setting for JPEG output, 1-100
	jpegQuality int
}

// NewRenderer creates a renderer. An unknown colormap is rejected.
func NewRenderer(colormap string, jpegQuality int) (*Renderer, error) {
	switch colormap {
	case ColormapGray, ColormapGrayReversed:
	default:
		return nil, fmt.Errorf("unknown colormap %q (want %s or %s)",
			colormap, ColormapGray, ColormapGrayReversed)
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Renderer{colormap: colormap, jpegQuality: jpegQuality}, nil
}

// Rasterize normalizes the slice to its own intensity range and maps it
// to a 16-bit grayscale image. Matrix row i becomes image row y=i and
// column j becomes x=j. A constant slice rasterizes to black (or white
// under the reversed colormap).
func (r *Renderer) Rasterize(s *models.Slice2D) *image.Gray16 {
	rows, cols := s.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	raw := s.Matrix().RawMatrix().Data
	lo, hi := 0.0, 0.0
	if len(raw) > 0 {
		lo, hi = floats.Min(raw), floats.Max(raw)
	}
	span := hi - lo

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := 0.0
			if span > 0 {
				v = (s.At(i, j) - lo) / span
			}
			if r.colormap == ColormapGrayReversed {
				v = 1 - v
			}
			value := uint16(math.Max(0, math.Min(65535, v*65535)))
			img.SetGray16(j, i, color.Gray16{Y: value})
		}
	}
	return img
}

// Encode writes the image to w in the named format.
func (r *Renderer) Encode(w io.Writer, img image.Image, fileType string) error {
	switch fileType {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: r.jpegQuality})
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output file type %q", fileType)
	}
}

// Save rasterizes the slice and writes it to path in the named format.
func (r *Renderer) Save(s *models.Slice2D, path, fileType string) error {
	img := r.Rasterize(s)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(file, img, fileType); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
