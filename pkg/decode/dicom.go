package decode

import (
	"fmt"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/JacksonKontny/med2image/internal/models"
)

// parseDICOMPixels parses a DICOM file and pulls out its pixel data info.
// MustGetPixelDataInfo panics when the element holds something else, so
// the panic is captured and returned as an error.
func parseDICOMPixels(path string) (info dicom.PixelDataInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return info, err
	}
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return info, fmt.Errorf("no pixel data element: %v", err)
	}
	return dicom.MustGetPixelDataInfo(el.Value), nil
}

// LoadDICOM decodes a DICOM file into a 3D volume, stacking the file's
// frames along the Z axis. A single-frame file yields a volume with one
// slice. Encapsulated (compressed) transfer syntaxes are not supported.
func LoadDICOM(path string) (*models.Volume, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, inputFailf("%v", err)
	}

	info, err := parseDICOMPixels(path)
	if err != nil {
		return nil, inputFailf("parsing DICOM %s: %v", path, err)
	}
	if len(info.Frames) == 0 {
		return nil, inputFailf("DICOM %s contains no image frames", path)
	}

	var (
		data   []float64
		nx, ny int
	)
	for z, fr := range info.Frames {
		native, err := fr.GetNativeFrame()
		if err != nil {
			return nil, inputFailf("DICOM %s frame %d: %v (encapsulated transfer syntaxes are not supported)", path, z, err)
		}
		if z == 0 {
			nx, ny = native.Cols, native.Rows
			if nx <= 0 || ny <= 0 {
				return nil, inputFailf("DICOM %s has empty frame dimensions %dx%d", path, native.Cols, native.Rows)
			}
			data = make([]float64, nx*ny*len(info.Frames))
		}
		if native.Cols != nx || native.Rows != ny {
			return nil, inputFailf("DICOM %s frame %d dimensions %dx%d differ from first frame %dx%d",
				path, z, native.Cols, native.Rows, nx, ny)
		}

		// Native pixel data is row-major with one value slice per pixel;
		// only the first sample is used (grayscale).
		base := z * nx * ny
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				data[base+x+nx*y] = float64(native.Data[y*nx+x][0])
			}
		}
	}

	return models.NewVolume3D(data, nx, ny, len(info.Frames))
}
