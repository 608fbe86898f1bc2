package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/comicreader/internal/buildinfo"
	"github.com/dmitrijs2005/comicreader/internal/client/cli"
	"github.com/dmitrijs2005/comicreader/internal/client/config"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(cfg.LogLevel, os.Stderr)

	ctx := context.Background()
	log.Debug(ctx, "starting", "build", buildinfo.String(), "server", cfg.ServerBaseURL)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "couldn't start", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error(ctx, "exited with error", "error", err)
		os.Exit(1)
	}
}
