// Package conversion orchestrates a full conversion run: decode the input
// volume, plan the slice extraction jobs, and render each job to disk.
package conversion

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/JacksonKontny/med2image/internal/models"
	"github.com/JacksonKontny/med2image/pkg/decode"
	"github.com/JacksonKontny/med2image/pkg/render"
	"github.com/JacksonKontny/med2image/pkg/selection"
)

// ErrOutputIOFail reports a failure writing an output image. The run
// aborts on the first such failure; files already written stay in place.
var ErrOutputIOFail = errors.New("failed to write output file")

// Params holds the conversion configuration for one run.
type Params struct {
	// InputFile is the volume to convert, NIfTI or DICOM.
	InputFile string

	// OutputDir receives the converted images. Created if absent.
	OutputDir string

	// OutputFileStem is the base of every output filename. An extension
	// on the stem selects the output type unless OutputFileType is set.
	OutputFileStem string

	// OutputFileType is the output image format (png, jpg, jpeg, tif,
	// tiff). Overrides any extension on the stem. Empty means derive
	// from the stem, falling back to png.
	OutputFileType string

	// FrameSelector picks frames of a 4D input. Ignored for 3D input.
	FrameSelector selection.Selector

	// SliceSelector picks Z slices of each selected frame.
	SliceSelector selection.Selector

	// ShowSlices renders an ASCII preview of each converted slice to
	// standard output.
	ShowSlices bool

	// Colormap is the grayscale colormap identifier.
	Colormap string

	// JPEGQuality is the JPEG encoder quality, 1-100.
	JPEGQuality int

	// Cores is the number of jobs rendered concurrently. With 1 the
	// output files are created strictly in plan order.
	Cores int
}

// Converter runs a single conversion. It is not reusable across runs.
type Converter struct {
	params *Params
	log    *logrus.Logger

	// jobsDone counts output files written by the last run
	jobsDone int
}

// NewConverter creates a converter for one run. A nil logger discards
// all output.
func NewConverter(params *Params, log *logrus.Logger) *Converter {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	return &Converter{params: params, log: log}
}

// JobsDone returns the number of output files written by the last Run.
func (c *Converter) JobsDone() int {
	return c.jobsDone
}

// Run decodes the input, plans the jobs, and writes every output image.
func (c *Converter) Run() error {
	vol, err := decode.Load(c.params.InputFile)
	if err != nil {
		return err
	}
	return c.convert(vol)
}

// convert performs the planning and rendering for an already loaded
// volume.
func (c *Converter) convert(vol *models.Volume) error {
	if vol.Is4D() {
		c.log.WithField("frames", vol.FrameCount()).Info("4D volume detected")
	} else {
		c.log.Info("3D volume detected")
		if c.params.FrameSelector.Policy != selection.All {
			c.log.WithField("frameSelector", c.params.FrameSelector.String()).
				Debug("frame selector ignored for 3D input")
		}
	}

	out := selection.NewOutputSpec(c.params.OutputDir, c.params.OutputFileStem, c.params.OutputFileType)
	if !render.SupportedType(out.Type) {
		return fmt.Errorf("unsupported output file type %q", out.Type)
	}

	renderer, err := render.NewRenderer(c.params.Colormap, c.params.JPEGQuality)
	if err != nil {
		return err
	}

	jobs, err := selection.Plan(vol, c.params.FrameSelector, c.params.SliceSelector, out)
	if err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{
		"jobs":       len(jobs),
		"outputDir":  out.Dir,
		"outputType": out.Type,
	}).Info("conversion planned")

	// The output directory must exist before the first write. MkdirAll
	// is a no-op when it already does.
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return fmt.Errorf("%w: creating output directory %s: %v", ErrOutputIOFail, out.Dir, err)
	}

	if c.params.Cores > 1 {
		err = c.runParallel(renderer, out, jobs)
	} else {
		err = c.runSequential(renderer, out, jobs)
	}
	if err != nil {
		return err
	}

	c.jobsDone = len(jobs)
	return nil
}

func (c *Converter) writeJob(renderer *render.Renderer, out selection.OutputSpec, job selection.Job) error {
	path := out.Path(job.Filename)
	if err := renderer.Save(job.Image, path, out.Type); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputIOFail, path, err)
	}
	c.log.WithField("outputfile", path).Info("slice written")

	if c.params.ShowSlices {
		if err := render.Preview(os.Stdout, job.Image, 64); err != nil {
			return fmt.Errorf("%w: previewing %s: %v", ErrOutputIOFail, job.Filename, err)
		}
	}
	return nil
}

// runSequential writes jobs one at a time in plan order, stopping at the
// first failure.
func (c *Converter) runSequential(renderer *render.Renderer, out selection.OutputSpec, jobs []selection.Job) error {
	for _, job := range jobs {
		if err := c.writeJob(renderer, out, job); err != nil {
			return err
		}
	}
	return nil
}

// runParallel distributes jobs across workers. Filenames are unique per
// plan, so no two workers touch the same file. The first failure wins;
// in-flight jobs still finish.
func (c *Converter) runParallel(renderer *render.Renderer, out selection.OutputSpec, jobs []selection.Job) error {
	jobCh := make(chan selection.Job)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		failed   atomic.Bool
	)

	for i := 0; i < c.params.Cores; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if failed.Load() {
					continue
				}
				if err := c.writeJob(renderer, out, job); err != nil {
					errOnce.Do(func() {
						firstErr = err
						failed.Store(true)
					})
				}
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	return firstErr
}
