package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"niftislice/pkg/volume"
)

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the header and intensity statistics of a volume",
		Flags: []cli.Flag{
			inputFlag(true),
			&cli.BoolFlag{Name: "json", Usage: "print as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			vol, err := volume.LoadFile(inputPath)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", inputPath, err)
			}
			info := vol.Describe()
			if asJSON {
				return writeInfoJSON(os.Stdout, info)
			}
			writeInfoText(os.Stdout, inputPath, info)
			return nil
		},
	}
}

func writeInfoJSON(w io.Writer, info volume.Info) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

func writeInfoText(w io.Writer, path string, info volume.Info) {
	fmt.Fprintf(w, "File:        %s\n", path)
	if info.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", info.Description)
	}
	fmt.Fprintf(w, "Dimensions:  %d x %d x %d (dims %v)\n", info.Cols, info.Rows, info.Slices, info.Dims)
	fmt.Fprintf(w, "Voxel size:  %.3g x %.3g x %.3g mm\n", info.VoxelSize[0], info.VoxelSize[1], info.VoxelSize[2])
	fmt.Fprintf(w, "Datatype:    %s (code %d, %d bits, %s endian)\n", info.Datatype, info.DatatypeID, info.BitPix, info.ByteOrder)
	fmt.Fprintf(w, "Scaling:     slope %g, intercept %g\n", info.SclSlope, info.SclInter)
	fmt.Fprintf(w, "Intensity:   min %g, max %g, mean %.4g, std dev %.4g\n", info.Min, info.Max, info.Mean, info.StdDev)
	fmt.Fprintf(w, "Start slice: %d\n", info.MiddleSlice)
}
