package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/smartcalc/internal/buildinfo"
	"github.com/dmitrijs2005/smartcalc/internal/client/cli"
	"github.com/dmitrijs2005/smartcalc/internal/client/config"
	"github.com/dmitrijs2005/smartcalc/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
