package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"niftislice/pkg/slicer"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	inputPath  string
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to YAML config file",
			Value:       "niftislice.yaml",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
	}
}

func inputFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:        "input",
		Aliases:     []string{"i"},
		Usage:       "path to .nii or .nii.gz file",
		Destination: &inputPath,
		Required:    required,
	}
}

// parseOrientations splits a comma separated orientation list
func parseOrientations(list []string) ([]slicer.Orientation, error) {
	var out []slicer.Orientation
	for _, item := range list {
		for _, name := range strings.Split(item, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			o, err := slicer.ParseOrientation(name)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no orientations selected")
	}
	return out, nil
}
