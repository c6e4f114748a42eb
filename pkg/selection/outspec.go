package selection

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultFileType is the output format used when neither the stem nor an
// explicit type supplies one.
const DefaultFileType = "png"

// OutputSpec describes where converted slices are written: the output
// directory, the filename stem, and the resolved file type (extension
// without the leading dot).
type OutputSpec struct {
	Dir  string
	Stem string
	Type string
}

// NewOutputSpec resolves the output file type. An explicit type overrides
// any extension carried by the stem; otherwise the stem's extension is
// used; with neither present the type defaults to png. A stem extension
// is stripped from the stem in either case, so a stem of "out.jpg" names
// files "out-...".
func NewOutputSpec(dir, stem, explicitType string) OutputSpec {
	stemExt := strings.TrimPrefix(filepath.Ext(stem), ".")
	if stemExt != "" {
		stem = strings.TrimSuffix(stem, "."+stemExt)
	}

	typ := strings.TrimPrefix(strings.TrimSpace(explicitType), ".")
	if typ == "" {
		typ = stemExt
	}
	if typ == "" {
		typ = DefaultFileType
	}

	return OutputSpec{Dir: dir, Stem: stem, Type: strings.ToLower(typ)}
}

// SliceFilename names the output file for slice z of a 3D volume.
func (o OutputSpec) SliceFilename(z int) string {
	return fmt.Sprintf("%s-slice%03d.%s", o.Stem, z, o.Type)
}

// FrameSliceFilename names the output file for slice z of frame f of a
// 4D volume.
func (o OutputSpec) FrameSliceFilename(f, z int) string {
	return fmt.Sprintf("%s-frame%03d-slice%03d.%s", o.Stem, f, z, o.Type)
}

// Path joins a filename onto the output directory.
func (o OutputSpec) Path(name string) string {
	return filepath.Join(o.Dir, name)
}
