package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"niftislice/internal/logger"
	"niftislice/pkg/visualization"
	"niftislice/pkg/volume"
)

func renderCmd() *cli.Command {
	var (
		slice        int
		orientations string
		format       string
		outDir       string
		all          bool
		montage      bool
		label        bool
	)

	return &cli.Command{
		Name:  "render",
		Usage: "Render slices of a volume to image files",
		Flags: []cli.Flag{
			inputFlag(true),
			&cli.IntFlag{
				Name:        "slice",
				Aliases:     []string{"s"},
				Usage:       "slice index (-1 = middle slice)",
				Value:       -1,
				Destination: &slice,
			},
			&cli.StringFlag{
				Name:        "orientation",
				Aliases:     []string{"o"},
				Usage:       "comma separated planes (xy, yz, xz)",
				Destination: &orientations,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "image format (png, jpeg, bmp, tiff)",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "output directory",
				Destination: &outDir,
			},
			&cli.BoolFlag{Name: "all", Usage: "render every slice index of each orientation", Destination: &all},
			&cli.BoolFlag{Name: "montage", Usage: "also write the three views side by side", Destination: &montage},
			&cli.BoolFlag{Name: "label", Usage: "draw orientation and slice number on each image", Destination: &label},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			if !cmd.IsSet("slice") {
				slice = cfg.Render.DefaultSlice
			}
			if !cmd.IsSet("format") {
				format = cfg.Render.Format
			}
			if !cmd.IsSet("out") {
				outDir = cfg.Output.Dir
			}
			if !cmd.IsSet("label") {
				label = cfg.Render.Label
			}
			names := cfg.Render.Orientations
			if cmd.IsSet("orientation") {
				names = []string{orientations}
			}
			planes, err := parseOrientations(names)
			if err != nil {
				return err
			}

			start := time.Now()
			vol, err := volume.LoadFile(inputPath)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", inputPath, err)
			}
			log.Info("volume loaded",
				"path", inputPath,
				"cols", vol.Cols(), "rows", vol.Rows(), "slices", vol.Slices(),
				"elapsed", time.Since(start))

			if slice < 0 {
				slice = vol.MiddleSlice()
			}

			viewer := visualization.NewViewer(vol, visualization.Options{
				Format:      format,
				JPEGQuality: cfg.Render.JPEGQuality,
				Label:       label,
				Workers:     cfg.Processing.NumCores,
			})

			if all {
				for _, o := range planes {
					dir := filepath.Join(outDir, o.String())
					log.Info("saving slice sequence", "orientation", o, "dir", dir)
					if err := viewer.SaveSliceSequence(o, dir); err != nil {
						return fmt.Errorf("failed to save %s slices: %w", o, err)
					}
				}
			} else {
				paths, err := viewer.SaveAll(ctx, planes, slice, outDir)
				if err != nil {
					return fmt.Errorf("failed to render slice %d: %w", slice, err)
				}
				log.Info("slices written", "slice", slice, "files", strings.Join(paths, ","))
			}

			if montage {
				img, err := viewer.Montage(slice)
				if err != nil {
					return fmt.Errorf("failed to render montage: %w", err)
				}
				path := filepath.Join(outDir, fmt.Sprintf("montage_%03d.%s", slice, viewer.Extension()))
				if err := viewer.SaveSlice(img, path); err != nil {
					return err
				}
				log.Info("montage written", "path", path)
			}

			log.Debug("render finished", "elapsed", time.Since(start))
			return nil
		},
	}
}
