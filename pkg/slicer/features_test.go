package slicer_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"niftislice/internal/models"
	"niftislice/pkg/slicer"
	"niftislice/pkg/volume"
)

// sliceContext holds state for a single scenario
type sliceContext struct {
	vol         *volume.Volume
	orientation slicer.Orientation
	slice       int
	raster      *image.RGBA
	previous    *image.RGBA
	err         error
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	sctx := &sliceContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		*sctx = sliceContext{}
		return ctx, nil
	})

	sc.Step(`^a uint8 volume of (\d+) by (\d+) by (\d+) voxels holding 0 to (\d+)$`, sctx.aVolume)
	sc.Step(`^I render slice (-?\d+) in the "([^"]*)" orientation$`, sctx.iRenderSlice)
	sc.Step(`^I render the same slice again$`, sctx.iRenderTheSameSliceAgain)
	sc.Step(`^the raster is (\d+) by (\d+) pixels$`, sctx.theRasterIs)
	sc.Step(`^every pixel is opaque gray$`, sctx.everyPixelIsOpaqueGray)
	sc.Step(`^the intensities are "([^"]*)"$`, sctx.theIntensitiesAre)
	sc.Step(`^both rasters are identical$`, sctx.bothRastersAreIdentical)
	sc.Step(`^rendering fails with an invalid slice index$`, sctx.renderingFails)
}

func (sctx *sliceContext) aVolume(x, y, z, last int) error {
	if x*y*z != last+1 {
		return fmt.Errorf("%d voxels cannot hold 0..%d", x*y*z, last)
	}
	h := &models.Header{Datatype: models.DatatypeUint8, ByteOrder: binary.LittleEndian}
	h.Dims = [8]int{3, x, y, z, 1, 1, 1, 1}
	raw := make([]byte, x*y*z)
	for i := range raw {
		raw[i] = byte(i)
	}
	vol, err := volume.Load(h, raw)
	if err != nil {
		return err
	}
	sctx.vol = vol
	return nil
}

func (sctx *sliceContext) iRenderSlice(s int, name string) error {
	o, err := slicer.ParseOrientation(name)
	if err != nil {
		return err
	}
	sctx.orientation, sctx.slice = o, s
	sctx.raster, sctx.err = slicer.RenderSlice(sctx.vol, o, s)
	return nil
}

func (sctx *sliceContext) iRenderTheSameSliceAgain() error {
	sctx.previous = sctx.raster
	sctx.raster, sctx.err = slicer.RenderSlice(sctx.vol, sctx.orientation, sctx.slice)
	return sctx.err
}

func (sctx *sliceContext) theRasterIs(width, height int) error {
	if sctx.err != nil {
		return sctx.err
	}
	b := sctx.raster.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("expected %dx%d raster, got %dx%d", width, height, b.Dx(), b.Dy())
	}
	return nil
}

func (sctx *sliceContext) everyPixelIsOpaqueGray() error {
	pix := sctx.raster.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != pix[i+1] || pix[i] != pix[i+2] || pix[i+3] != 0xff {
			return fmt.Errorf("pixel %d is %v", i/4, pix[i:i+4])
		}
	}
	return nil
}

func (sctx *sliceContext) theIntensitiesAre(list string) error {
	if sctx.err != nil {
		return sctx.err
	}
	var want []uint8
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return err
		}
		want = append(want, uint8(v))
	}

	var got []uint8
	for i := 0; i < len(sctx.raster.Pix); i += 4 {
		got = append(got, sctx.raster.Pix[i])
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	return nil
}

func (sctx *sliceContext) bothRastersAreIdentical() error {
	if sctx.previous == nil || sctx.raster == nil {
		return errors.New("two renders are required")
	}
	if !bytes.Equal(sctx.previous.Pix, sctx.raster.Pix) {
		return errors.New("rasters differ")
	}
	return nil
}

func (sctx *sliceContext) renderingFails() error {
	if !errors.Is(sctx.err, slicer.ErrInvalidSliceIndex) {
		return fmt.Errorf("expected ErrInvalidSliceIndex, got %v", sctx.err)
	}
	return nil
}
