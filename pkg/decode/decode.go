// Package decode loads medical image files into volumes. Files are routed
// to a format handler by extension: .nii and .gz go to the NIfTI reader,
// everything else is tried as DICOM.
package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JacksonKontny/med2image/internal/models"
)

// ErrInputFileFail reports an input that no registered handler could
// decode. It maps to exit code 10 at the CLI.
var ErrInputFileFail = errors.New("no handler could decode input file")

// Format identifies the handler a path is routed to.
type Format string

const (
	FormatNIfTI Format = "nifti"
	FormatDICOM Format = "dicom"
)

// FormatForPath returns the handler an input path dispatches to. Routing
// is by extension only; the handler itself validates content.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nii", ".gz":
		return FormatNIfTI
	default:
		return FormatDICOM
	}
}

// Load decodes the input file into a volume using the handler selected
// by FormatForPath. Decode failures wrap ErrInputFileFail.
func Load(path string) (*models.Volume, error) {
	switch FormatForPath(path) {
	case FormatNIfTI:
		return LoadNIfTI(path)
	default:
		return LoadDICOM(path)
	}
}

func inputFailf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInputFileFail, fmt.Sprintf(format, args...))
}
