package slicer

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidSliceIndex is returned when the slice index is outside
	// [0, slices-1]
	ErrInvalidSliceIndex = errors.New("invalid slice index")

	// ErrNoVolume is returned when rendering before a volume is set
	ErrNoVolume = errors.New("no volume loaded")
)

// RenderSlice renders slice s of vol in orientation o as an RGBA raster.
// Each pixel is the voxel intensity replicated into R, G and B with alpha
// 255; pixels whose voxel falls outside the volume are opaque black. The
// returned raster is freshly allocated on every call.
func RenderSlice(vol Volume, o Orientation, s int) (*image.RGBA, error) {
	if vol == nil {
		return nil, ErrNoVolume
	}
	if s < 0 || s >= vol.Slices() {
		return nil, fmt.Errorf("%w: %d not in [0,%d]", ErrInvalidSliceIndex, s, vol.Slices()-1)
	}

	width, height := o.OutputDimensions(vol)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	n := vol.Len()

	pix := img.Pix
	for p := 0; p < width*height; p++ {
		var v uint8
		if idx := o.VoxelIndex(vol, s, p); idx >= 0 && idx < n {
			v = vol.At(idx)
		}
		pix[4*p] = v
		pix[4*p+1] = v
		pix[4*p+2] = v
		pix[4*p+3] = 0xff
	}
	return img, nil
}

// View renders slices of one orientation from the current volume
type View struct {
	orientation Orientation
	vol         Volume
	width       int
	height      int
}

// NewView creates a view; vol may be nil and set later
func NewView(o Orientation, vol Volume) *View {
	v := &View{orientation: o}
	v.SetVolume(vol)
	return v
}

// SetVolume replaces the volume and recomputes the output dimensions
func (v *View) SetVolume(vol Volume) {
	v.vol = vol
	v.width, v.height = 0, 0
	if vol != nil {
		v.width, v.height = v.orientation.OutputDimensions(vol)
	}
}

// Orientation returns the view orientation
func (v *View) Orientation() Orientation { return v.orientation }

// Size returns the raster dimensions for the current volume
func (v *View) Size() (width, height int) { return v.width, v.height }

// Update renders slice s of the current volume
func (v *View) Update(s int) (*image.RGBA, error) {
	if v.vol == nil {
		return nil, ErrNoVolume
	}
	return RenderSlice(v.vol, v.orientation, s)
}
