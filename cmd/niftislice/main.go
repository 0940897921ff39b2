package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"niftislice/internal/logger"
	"niftislice/pkg/config"
)

// cfg is loaded once in the root Before hook
var cfg = config.DefaultConfig()

func main() {
	app := &cli.Command{
		Name:  "niftislice",
		Usage: "Render axial, sagittal and coronal slices of NIfTI volumes",
		Flags: globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log, err := logger.Configure(os.Stderr, logFormat, logLevel)
			if err != nil {
				return ctx, err
			}
			loaded, err := config.LoadConfig(configFile)
			if err != nil {
				return ctx, err
			}
			cfg = loaded
			if cfg.Output.Verbose && !cmd.IsSet("log-level") {
				log, _ = logger.Configure(os.Stderr, logFormat, "debug")
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			renderCmd(),
			inspectCmd(),
			serveCmd(),
			configCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
