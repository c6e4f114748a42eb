package selection

import (
	"github.com/JacksonKontny/med2image/internal/models"
)

// NoFrame marks a job extracted from a 3D volume, where no frame axis
// exists and the filename carries no frame field.
const NoFrame = -1

// Job is one slice extraction to perform: the source frame (NoFrame for
// 3D volumes), the Z index, the rotated 2D array, and the output filename.
type Job struct {
	Frame    int
	Slice    int
	Image    *models.Slice2D
	Filename string
}

// Plan resolves the frame and slice selectors against the volume's shape
// and returns the full ordered sequence of extraction jobs: frame-major,
// slice-minor, both ascending. Each job's image is already rotated 90
// degrees counter-clockwise for display. The frame selector is ignored
// for 3D volumes. Plan performs no I/O; an out-of-range selector fails
// before any job is produced.
func Plan(vol *models.Volume, frameSel, sliceSel Selector, out OutputSpec) ([]Job, error) {
	var frameRange []int
	if vol.Is4D() {
		var err error
		frameRange, err = frameSel.Range(vol.FrameCount())
		if err != nil {
			return nil, err
		}
	} else {
		frameRange = []int{NoFrame}
	}

	var jobs []Job
	for _, f := range frameRange {
		sub := vol
		if f != NoFrame {
			var err error
			sub, err = vol.Frame(f)
			if err != nil {
				return nil, err
			}
		}

		sliceRange, err := sliceSel.Range(sub.SliceCount())
		if err != nil {
			return nil, err
		}

		for _, z := range sliceRange {
			sl, err := sub.Slice(z)
			if err != nil {
				return nil, err
			}

			name := out.SliceFilename(z)
			if f != NoFrame {
				name = out.FrameSliceFilename(f, z)
			}

			jobs = append(jobs, Job{
				Frame:    f,
				Slice:    z,
				Image:    sl.Rot90(),
				Filename: name,
			})
		}
	}
	return jobs, nil
}
