package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/therealtombi/Rumble-Live-Ops/internal/platform"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var service platform.Service
	if headers, err := shared.LoadSessionFile(config.Session.HeadersPath); err == nil {
		service = platform.NewRumbleService(headers, config, logger)
	} else if !errors.Is(err, shared.ErrMissingSession) {
		logger.Warn("stored session is unusable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: service,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "rlo",
		Usage:    "Bulk playlist automation for Rumble streamers",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
