package main

import (
	"context"

	"github.com/gabapcia/driftwatch/internal/handlers/cli"
	"github.com/gabapcia/driftwatch/internal/pkg/logger"
	"github.com/gabapcia/driftwatch/internal/pkg/telemetry"
)

const serviceName = "driftwatch"

func main() {
	ctx := context.Background()

	cfg, err := cli.LoadConfig()
	if err != nil {
		panic(err)
	}

	if cfg.OtelEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			panic(err)
		}
		defer shutdown(ctx)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cli.Run(ctx, cfg); err != nil {
		logger.Fatal(ctx, "indexer terminated", "error", err)
	}
}
