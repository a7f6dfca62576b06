package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/outofforest/logger"
)

func main() {
	log := logger.New(logger.ConfigureWithCLI(logger.DefaultConfig))
	ctx := logger.WithLogger(context.Background(), log)

	if err := run(ctx, os.Args[1:], os.Stdout, OpenFileStore); err != nil {
		log.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}
