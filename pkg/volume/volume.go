// Package volume holds a decoded NIfTI volume with its intensities
// normalized to 8 bits, ready for slicing.
package volume

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"niftislice/internal/models"
	"niftislice/pkg/nifti"
	"niftislice/pkg/normalize"
)

// ErrShortBuffer is returned when the raw buffer holds fewer samples than
// the header dimensions require
var ErrShortBuffer = errors.New("voxel buffer shorter than header dimensions")

// Volume is an immutable 3D grid of 8-bit intensities. Index i maps to
// x + y*Cols + z*Cols*Rows.
type Volume struct {
	header models.Header
	data   []uint8
	stats  models.Stats
}

// voxelCount returns X*Y*Z, or false when the product overflows int.
// Extents must already be positive.
func voxelCount(h *models.Header) (int, bool) {
	n := 1
	for i := 1; i <= 3; i++ {
		if n > math.MaxInt/h.Dims[i] {
			return 0, false
		}
		n *= h.Dims[i]
	}
	return n, true
}

// Load reinterprets raw per the header datatype and normalizes it. It
// never returns a partially built volume.
func Load(header *models.Header, raw []byte) (*Volume, error) {
	if header == nil {
		return nil, errors.New("nil header")
	}
	for i := 1; i <= 3; i++ {
		if header.Dims[i] < 1 {
			return nil, fmt.Errorf("%w: dim[%d]=%d", normalize.ErrEmptyInput, i, header.Dims[i])
		}
	}

	samples, err := normalize.Decode(raw, header.Datatype, header.ByteOrder)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, normalize.ErrEmptyInput
	}

	n, ok := voxelCount(header)
	if !ok {
		return nil, fmt.Errorf("%w: extents %dx%dx%d overflow", ErrShortBuffer, header.Dims[1], header.Dims[2], header.Dims[3])
	}
	if len(samples) < n {
		return nil, fmt.Errorf("%w: have %d samples, need %d", ErrShortBuffer, len(samples), n)
	}
	samples = samples[:n]

	data, err := normalize.Normalize(samples)
	if err != nil {
		return nil, err
	}

	min, max := normalize.Range(samples)
	mean, std := stat.MeanStdDev(samples, nil)
	if math.IsNaN(std) {
		std = 0
	}

	return &Volume{
		header: *header,
		data:   data,
		stats: models.Stats{
			Min:    min,
			Max:    max,
			Mean:   mean,
			StdDev: std,
		},
	}, nil
}

// LoadBytes decodes a .nii or .nii.gz file image held in memory
func LoadBytes(data []byte) (*Volume, error) {
	h, raw, err := nifti.Decode(data)
	if err != nil {
		return nil, err
	}
	return Load(h, raw)
}

// LoadFile decodes and loads a .nii or .nii.gz file
func LoadFile(path string) (*Volume, error) {
	h, raw, err := nifti.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(h, raw)
}

// Header returns a copy of the decoded header
func (v *Volume) Header() models.Header { return v.header }

// Dims returns the header dimension vector
func (v *Volume) Dims() [8]int { return v.header.Dims }

// Cols returns the X extent
func (v *Volume) Cols() int { return v.header.Dims[1] }

// Rows returns the Y extent
func (v *Volume) Rows() int { return v.header.Dims[2] }

// Slices returns the Z extent
func (v *Volume) Slices() int { return v.header.Dims[3] }

// Len returns the number of voxels
func (v *Volume) Len() int { return len(v.data) }

// At returns the normalized intensity at flat index i
func (v *Volume) At(i int) uint8 { return v.data[i] }

// Data returns a copy of the normalized voxels
func (v *Volume) Data() []uint8 {
	out := make([]uint8, len(v.data))
	copy(out, v.data)
	return out
}

// Stats returns summary statistics of the raw intensities
func (v *Volume) Stats() models.Stats { return v.stats }

// MiddleSlice returns the slice a viewer starts on: round(slices/2),
// clamped to the last slice
func (v *Volume) MiddleSlice() int {
	s := (v.Slices() + 1) / 2
	if s > v.Slices()-1 {
		s = v.Slices() - 1
	}
	return s
}
