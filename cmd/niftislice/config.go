package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"niftislice/internal/logger"
	"niftislice/pkg/config"
)

func configCmd() *cli.Command {
	var (
		path  string
		force bool
	)

	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a configuration file with default values",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "path",
						Usage:       "where to write the file",
						Value:       "niftislice.yaml",
						Destination: &path,
					},
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file", Destination: &force},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := os.Stat(path); err == nil && !force {
						return fmt.Errorf("%s already exists (use --force to overwrite)", path)
					}
					if err := config.CreateDefaultConfigFile(path); err != nil {
						return err
					}
					logger.FromContext(ctx).Info("config written", "path", path)
					return nil
				},
			},
		},
	}
}
