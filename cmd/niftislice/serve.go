package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"niftislice/internal/api"
	"niftislice/internal/logger"
	"niftislice/pkg/volume"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve rendered slices over HTTP",
		Flags: []cli.Flag{
			inputFlag(false),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if !cmd.IsSet("addr") {
				addr = cfg.Server.Address
			}

			store := api.NewVolumeStore()
			if inputPath != "" {
				vol, err := volume.LoadFile(inputPath)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", inputPath, err)
				}
				entry := store.Replace(filepath.Base(inputPath), vol)
				log.Info("volume loaded", "id", entry.ID, "path", inputPath)
			}

			server := api.NewServer(store, log, cfg.Server.MaxUploadBytes)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
