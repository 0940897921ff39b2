// Package slicer extracts axis-aligned 2D slices from a volume and renders
// them as grayscale RGBA rasters.
package slicer

import (
	"fmt"
	"strings"
)

// Volume is the read-only view of a volume the slicer needs
type Volume interface {
	Cols() int
	Rows() int
	Slices() int
	Len() int
	At(i int) uint8
}

// Orientation selects the plane a slice is cut along
type Orientation int

const (
	// XY is the axial plane: fixed z, output (cols, rows)
	XY Orientation = iota
	// YZ is the sagittal plane: fixed x, output (rows, slices)
	YZ
	// XZ is the coronal plane: fixed y, output (cols, slices)
	XZ
)

// Orientations lists every orientation in display order
var Orientations = []Orientation{XY, YZ, XZ}

func (o Orientation) String() string {
	switch o {
	case XY:
		return "xy"
	case YZ:
		return "yz"
	case XZ:
		return "xz"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation accepts a plane name ("xy"), an anatomical name
// ("axial") or the name of the fixed axis ("z")
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xy", "axial", "z":
		return XY, nil
	case "yz", "sagittal", "x":
		return YZ, nil
	case "xz", "coronal", "y":
		return XZ, nil
	}
	return 0, fmt.Errorf("invalid orientation: %q (must be xy, yz or xz)", s)
}

// OutputDimensions returns the raster width and height for vol
func (o Orientation) OutputDimensions(vol Volume) (width, height int) {
	switch o {
	case YZ:
		return vol.Rows(), vol.Slices()
	case XZ:
		return vol.Cols(), vol.Slices()
	default:
		return vol.Cols(), vol.Rows()
	}
}

// VoxelIndex maps the output pixel at linear raster index p to a flat
// voxel index. The walks follow the viewer's historical layout:
//
//	XY: the contiguous block [s*X*Y, s*X*Y + X*Y)
//	YZ: s, s+X, s+2X, ... (fixed x = s)
//	XZ: per z block, the X-long row starting at offset X*Y - s*X
//
// The XZ row offset counts from the end of each block, so s=0 lands on row
// 0 of the next block. Callers must check the result against vol.Len().
func (o Orientation) VoxelIndex(vol Volume, s, p int) int {
	cols, rows := vol.Cols(), vol.Rows()
	sliceSize := cols * rows

	switch o {
	case YZ:
		return s + p*cols
	case XZ:
		px, py := p%cols, p/cols
		return py*sliceSize + sliceSize - s*cols + px
	default:
		return s*sliceSize + p
	}
}
