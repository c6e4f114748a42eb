package render

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/JacksonKontny/med2image/internal/models"
)

// previewRamp orders characters from dark to bright for terminal preview.
const previewRamp = " .:-=+*#%@"

// Preview writes a coarse ASCII rendering of the slice to w, at most
// maxWidth characters wide. It stands in for an on-screen display when
// slices are shown during conversion.
func Preview(w io.Writer, s *models.Slice2D, maxWidth int) error {
	rows, cols := s.Dims()
	if rows == 0 || cols == 0 {
		return nil
	}
	if maxWidth <= 0 {
		maxWidth = 64
	}

	step := 1
	if cols > maxWidth {
		step = (cols + maxWidth - 1) / maxWidth
	}

	raw := s.Matrix().RawMatrix().Data
	lo, hi := floats.Min(raw), floats.Max(raw)
	span := hi - lo

	var b strings.Builder
	// Terminal cells are roughly twice as tall as wide, so rows advance
	// at double the column step.
	for i := 0; i < rows; i += 2 * step {
		for j := 0; j < cols; j += step {
			v := 0.0
			if span > 0 {
				v = (s.At(i, j) - lo) / span
			}
			idx := int(v * float64(len(previewRamp)-1))
			b.WriteByte(previewRamp[idx])
		}
		b.WriteByte('\n')
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}
