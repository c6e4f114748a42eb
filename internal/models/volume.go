package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Volume represents a loaded scan as a 3D or 4D intensity array.
// The data is stored x-fastest, so the linear index of voxel (x,y,z,t) is
// x + NX*(y + NY*(z + NZ*t)). The volume is read-only for the lifetime of
// a conversion run.
type Volume struct {
	// Data holds the voxel intensities in x-fastest order
	Data []float64

	// NX, NY, NZ are the spatial dimensions in voxels
	NX, NY, NZ int

	// NT is the number of frames along the time/series axis.
	// Always 1 for a 3D volume.
	NT int

	// NDim is the dimensionality tag: 3 for a spatial volume,
	// 4 for a time series of volumes
	NDim int
}

// NewVolume3D creates a 3D volume from voxel data in x-fastest order.
func NewVolume3D(data []float64, nx, ny, nz int) (*Volume, error) {
	if nx < 0 || ny < 0 || nz < 0 {
		return nil, fmt.Errorf("negative dimension in (%d,%d,%d)", nx, ny, nz)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("data length %d does not match dimensions (%d,%d,%d)",
			len(data), nx, ny, nz)
	}
	return &Volume{Data: data, NX: nx, NY: ny, NZ: nz, NT: 1, NDim: 3}, nil
}

// NewVolume4D creates a 4D volume from voxel data in x-fastest order,
// frames stored consecutively along the last axis.
func NewVolume4D(data []float64, nx, ny, nz, nt int) (*Volume, error) {
	if nx < 0 || ny < 0 || nz < 0 || nt < 0 {
		return nil, fmt.Errorf("negative dimension in (%d,%d,%d,%d)", nx, ny, nz, nt)
	}
	if len(data) != nx*ny*nz*nt {
		return nil, fmt.Errorf("data length %d does not match dimensions (%d,%d,%d,%d)",
			len(data), nx, ny, nz, nt)
	}
	return &Volume{Data: data, NX: nx, NY: ny, NZ: nz, NT: nt, NDim: 4}, nil
}

// Is4D reports whether the volume carries a time/series axis.
func (v *Volume) Is4D() bool {
	return v.NDim == 4
}

// FrameCount returns the number of frames along the time axis.
func (v *Volume) FrameCount() int {
	return v.NT
}

// SliceCount returns the number of Z slices.
func (v *Volume) SliceCount() int {
	return v.NZ
}

// At returns the intensity of voxel (x,y,z) in frame t.
func (v *Volume) At(x, y, z, t int) float64 {
	return v.Data[x+v.NX*(y+v.NY*(z+v.NZ*t))]
}

// Frame returns the 3D sub-volume at frame index t. The returned volume
// shares the underlying data with the receiver.
func (v *Volume) Frame(t int) (*Volume, error) {
	if t < 0 || t >= v.NT {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", t, v.NT)
	}
	n := v.NX * v.NY * v.NZ
	return &Volume{
		Data: v.Data[t*n : (t+1)*n],
		NX:   v.NX,
		NY:   v.NY,
		NZ:   v.NZ,
		NT:   1,
		NDim: 3,
	}, nil
}

// Slice extracts the 2D array at Z index z, with X varying along rows and
// Y along columns. The slice is a copy and may be transformed freely.
func (v *Volume) Slice(z int) (*Slice2D, error) {
	if z < 0 || z >= v.NZ {
		return nil, fmt.Errorf("slice %d out of range [0,%d)", z, v.NZ)
	}
	m := mat.NewDense(v.NX, v.NY, nil)
	for y := 0; y < v.NY; y++ {
		for x := 0; x < v.NX; x++ {
			m.Set(x, y, v.At(x, y, z, 0))
		}
	}
	return &Slice2D{m: m}, nil
}

// Slice2D is a 2D intensity array extracted from a volume.
type Slice2D struct {
	m *mat.Dense
}

// NewSlice2D creates a slice from an existing dense matrix.
func NewSlice2D(m *mat.Dense) *Slice2D {
	return &Slice2D{m: m}
}

// Dims returns the row and column counts.
func (s *Slice2D) Dims() (rows, cols int) {
	return s.m.Dims()
}

// At returns the intensity at row i, column j.
func (s *Slice2D) At(i, j int) float64 {
	return s.m.At(i, j)
}

// Matrix exposes the underlying dense matrix.
func (s *Slice2D) Matrix() *mat.Dense {
	return s.m
}

// Rot90 returns a new slice rotated 90 degrees counter-clockwise, the
// conventional radiological display orientation. An (R,C) slice rotates
// to (C,R); four successive rotations restore the original.
func (s *Slice2D) Rot90() *Slice2D {
	r, c := s.m.Dims()
	out := mat.NewDense(c, r, nil)
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			out.Set(i, j, s.m.At(j, c-1-i))
		}
	}
	return &Slice2D{m: out}
}
