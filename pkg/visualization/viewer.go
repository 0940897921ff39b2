package visualization

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"niftislice/pkg/slicer"
)

// Options controls how rendered slices are written
type Options struct {
	// Format is the file format: png, jpeg, bmp or tiff
	Format string

	// JPEGQuality is used for jpeg output
	JPEGQuality int

	// Label draws the orientation and slice number into the top left corner
	Label bool

	// Workers bounds how many orientations SaveAll renders concurrently
	Workers int
}

// Viewer renders slices of one volume and writes them to disk
type Viewer struct {
	// vol is the volume being viewed; it is never mutated
	vol slicer.Volume

	opts Options
}

// NewViewer creates a new slice viewer for vol
func NewViewer(vol slicer.Volume, opts Options) *Viewer {
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 90
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Viewer{vol: vol, opts: opts}
}

// Extension returns the file extension for the configured format
func (v *Viewer) Extension() string {
	switch strings.ToLower(v.opts.Format) {
	case "jpeg", "jpg":
		return "jpg"
	case "tiff", "tif":
		return "tif"
	case "bmp":
		return "bmp"
	}
	return "png"
}

// ExtractSlice renders slice s in orientation o, adding the label when
// enabled
func (v *Viewer) ExtractSlice(o slicer.Orientation, s int) (*image.RGBA, error) {
	img, err := slicer.RenderSlice(v.vol, o, s)
	if err != nil {
		return nil, err
	}
	if v.opts.Label {
		AddLabel(img, fmt.Sprintf("%s %d", strings.ToUpper(o.String()), s))
	}
	return img, nil
}

// Encode writes img in the configured format
func (v *Viewer) Encode(w io.Writer, img image.Image) error {
	switch v.Extension() {
	case "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: v.opts.JPEGQuality})
	case "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp":
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}

// SaveSlice saves an extracted slice to filename
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := v.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("error encoding %s: %w", filename, err)
	}
	return file.Close()
}

// SliceFilename returns the file name used for slice s of orientation o
func (v *Viewer) SliceFilename(o slicer.Orientation, s int) string {
	return fmt.Sprintf("slice_%s_%03d.%s", o, s, v.Extension())
}

// SaveSliceSequence renders and saves every slice index of orientation o
func (v *Viewer) SaveSliceSequence(o slicer.Orientation, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for s := 0; s < v.vol.Slices(); s++ {
		img, err := v.ExtractSlice(o, s)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, v.SliceFilename(o, s))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// SaveAll saves slice s of each orientation into outputDir, rendering up
// to Workers orientations concurrently. It returns the written paths in
// the order of orientations.
func (v *Viewer) SaveAll(ctx context.Context, orientations []slicer.Orientation, s int, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, len(orientations))
	errs := make([]error, len(orientations))
	sem := make(chan struct{}, v.opts.Workers)
	var wg sync.WaitGroup

	for i, o := range orientations {
		wg.Add(1)
		go func(i int, o slicer.Orientation) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}

			img, err := v.ExtractSlice(o, s)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", o, err)
				return
			}
			path := filepath.Join(outputDir, v.SliceFilename(o, s))
			if err := v.SaveSlice(img, path); err != nil {
				errs[i] = fmt.Errorf("%s: %w", o, err)
				return
			}
			paths[i] = path
		}(i, o)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// Montage renders slice s in every orientation and places the rasters
// side by side, top aligned, on a black background
func (v *Viewer) Montage(s int) (*image.RGBA, error) {
	var tiles []*image.RGBA
	width, height := 0, 0
	for _, o := range slicer.Orientations {
		img, err := v.ExtractSlice(o, s)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, img)
		width += img.Bounds().Dx()
		if h := img.Bounds().Dy(); h > height {
			height = h
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	x := 0
	for _, tile := range tiles {
		r := tile.Bounds().Add(image.Pt(x, 0))
		draw.Draw(out, r, tile, image.Point{}, draw.Src)
		x += tile.Bounds().Dx()
	}
	return out, nil
}

// AddLabel draws text in the top left corner of img, white on a black
// outline so it stays readable on any intensity. Text that does not fit is
// clipped.
func AddLabel(img draw.Image, text string) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	x, y := 2, 1+metrics.Ascent.Ceil()

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				drawer.Dot = fixed.P(x+dx, y+dy)
				drawer.DrawString(text)
			}
		}
	}

	drawer.Src = image.NewUniform(color.White)
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)
}
