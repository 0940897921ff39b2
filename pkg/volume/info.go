package volume

import "encoding/binary"

// Info is a serializable summary of a loaded volume
type Info struct {
	Cols        int        `json:"cols"`
	Rows        int        `json:"rows"`
	Slices      int        `json:"slices"`
	Dims        [8]int     `json:"dims"`
	Datatype    string     `json:"datatype"`
	DatatypeID  int        `json:"datatypeCode"`
	BitPix      int        `json:"bitpix"`
	VoxelSize   [3]float64 `json:"voxelSize"`
	SclSlope    float64    `json:"sclSlope"`
	SclInter    float64    `json:"sclInter"`
	Description string     `json:"description,omitempty"`
	ByteOrder   string     `json:"byteOrder"`
	Min         float64    `json:"min"`
	Max         float64    `json:"max"`
	Mean        float64    `json:"mean"`
	StdDev      float64    `json:"stdDev"`
	MiddleSlice int        `json:"middleSlice"`
}

// Describe summarises v
func (v *Volume) Describe() Info {
	h := v.header
	info := Info{
		Cols:        v.Cols(),
		Rows:        v.Rows(),
		Slices:      v.Slices(),
		Dims:        h.Dims,
		Datatype:    h.Datatype.String(),
		DatatypeID:  int(h.Datatype),
		BitPix:      h.BitPix,
		VoxelSize:   [3]float64{h.PixDim[1], h.PixDim[2], h.PixDim[3]},
		SclSlope:    h.SclSlope,
		SclInter:    h.SclInter,
		Description: h.Description,
		ByteOrder:   "little",
		Min:         v.stats.Min,
		Max:         v.stats.Max,
		Mean:        v.stats.Mean,
		StdDev:      v.stats.StdDev,
		MiddleSlice: v.MiddleSlice(),
	}
	if h.ByteOrder == binary.BigEndian {
		info.ByteOrder = "big"
	}
	return info
}
