package models

import "encoding/binary"

// Datatype is the NIfTI-1 datatype code of the raw voxel samples
type Datatype int16

// Supported NIfTI-1 datatype codes
const (
	DatatypeUnknown Datatype = 0
	DatatypeUint8   Datatype = 2
	DatatypeInt16   Datatype = 4
	DatatypeInt32   Datatype = 8
	DatatypeFloat32 Datatype = 16
	DatatypeFloat64 Datatype = 64
	DatatypeInt8    Datatype = 256
	DatatypeUint16  Datatype = 512
	DatatypeUint32  Datatype = 768
)

// Size returns the element width in bytes, or 0 if the code is not one of
// the eight scalar kinds the viewer can display
func (d Datatype) Size() int {
	switch d {
	case DatatypeUint8, DatatypeInt8:
		return 1
	case DatatypeInt16, DatatypeUint16:
		return 2
	case DatatypeInt32, DatatypeUint32, DatatypeFloat32:
		return 4
	case DatatypeFloat64:
		return 8
	}
	return 0
}

func (d Datatype) String() string {
	switch d {
	case DatatypeUint8:
		return "uint8"
	case DatatypeInt8:
		return "int8"
	case DatatypeInt16:
		return "int16"
	case DatatypeUint16:
		return "uint16"
	case DatatypeInt32:
		return "int32"
	case DatatypeUint32:
		return "uint32"
	case DatatypeFloat32:
		return "float32"
	case DatatypeFloat64:
		return "float64"
	}
	return "unknown"
}

// Header holds the decoded NIfTI-1 header fields the slicer relies on
type Header struct {
	// Dims is the dimension vector; Dims[0] is the number of dimensions
	// and Dims[1..3] are the X, Y and Z extents in voxels
	Dims [8]int

	// Datatype selects the numeric kind of each voxel sample
	Datatype Datatype

	// BitPix is the number of bits per voxel
	BitPix int

	// PixDim holds the voxel spacing; PixDim[1..3] are in mm
	PixDim [8]float64

	// VoxOffset is the byte offset of the voxel data in the file
	VoxOffset int

	// SclSlope and SclInter describe the stored-to-real intensity scaling
	SclSlope float64
	SclInter float64

	// Description is the free text descrip field
	Description string

	// ByteOrder is the byte order the file was written in
	ByteOrder binary.ByteOrder
}

// Cols returns the X extent
func (h *Header) Cols() int { return h.Dims[1] }

// Rows returns the Y extent
func (h *Header) Rows() int { return h.Dims[2] }

// Slices returns the Z extent
func (h *Header) Slices() int { return h.Dims[3] }

// VoxelCount returns X*Y*Z
func (h *Header) VoxelCount() int {
	return h.Dims[1] * h.Dims[2] * h.Dims[3]
}

// Stats summarises the raw intensities of a volume before normalization
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}
