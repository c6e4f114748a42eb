package decode

import (
	"fmt"
	"os"

	"github.com/henghuang/nifti"

	"github.com/JacksonKontny/med2image/internal/models"
)

// parseNIfTI loads a NIfTI file with voxel data. The nifti library panics
// on malformed input, so the panic is captured here and turned into a
// recoverable error.
func parseNIfTI(path string) (img nifti.Nifti1Image, hdr nifti.Nifti1Header, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	hdr.LoadHeader(path)
	img.LoadImage(path, true)
	return img, hdr, nil
}

// LoadNIfTI decodes a .nii or .nii.gz file into a 3D or 4D volume.
func LoadNIfTI(path string) (*models.Volume, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, inputFailf("%v", err)
	}

	img, hdr, err := parseNIfTI(path)
	if err != nil {
		return nil, inputFailf("parsing NIfTI %s: %v", path, err)
	}

	ndim := int(hdr.Dim[0])
	nx, ny, nz := int(hdr.Dim[1]), int(hdr.Dim[2]), int(hdr.Dim[3])

	switch ndim {
	case 3:
		if nx <= 0 || ny <= 0 || nz <= 0 {
			return nil, inputFailf("NIfTI %s has empty dimensions (%d,%d,%d)", path, nx, ny, nz)
		}
		data := make([]float64, nx*ny*nz)
		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					data[x+nx*(y+ny*z)] = float64(img.GetAt(x, y, z, 0))
				}
			}
		}
		return models.NewVolume3D(data, nx, ny, nz)

	case 4:
		nt := int(hdr.Dim[4])
		if nx <= 0 || ny <= 0 || nz <= 0 || nt <= 0 {
			return nil, inputFailf("NIfTI %s has empty dimensions (%d,%d,%d,%d)", path, nx, ny, nz, nt)
		}
		data := make([]float64, nx*ny*nz*nt)
		for t := 0; t < nt; t++ {
			base := t * nx * ny * nz
			for z := 0; z < nz; z++ {
				for y := 0; y < ny; y++ {
					for x := 0; x < nx; x++ {
						data[base+x+nx*(y+ny*z)] = float64(img.GetAt(x, y, z, t))
					}
				}
			}
		}
		return models.NewVolume4D(data, nx, ny, nz, nt)

	default:
		return nil, inputFailf("NIfTI %s has unsupported dimensionality %d (want 3 or 4)", path, ndim)
	}
}
