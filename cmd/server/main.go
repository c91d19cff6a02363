// Package main starts the registration API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tawargy/sqliteserver/internal/pkg/config"
	"github.com/tawargy/sqliteserver/pkg/logger"
)

// @title        User registration API
// @version      1.0
// @description  Registers users and serves stored records through a bounded worker pool.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "sqliteserver",
	})

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal().Err(err).Msg("server stopped")
	}
}
