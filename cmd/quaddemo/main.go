// Package main is the entry point for the quad demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/quadloop/internal/config"
	"github.com/Faultbox/quadloop/internal/game"
	"github.com/Faultbox/quadloop/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	log.Info("=== quadloop demo ===")
	log.Sugar().Debugf("Config: %+v", cfg)

	if err := run(cfg, log); err != nil {
		log.Error("game error", zap.Error(err))
		logger.Sync(log)
		os.Exit(1)
	}

	log.Info("game closed normally")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := game.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	defer g.Close()

	if len(cfg.Assets.Preload) == 0 {
		cfg.Assets.Preload = []string{sceneFile, clickFile}
	}

	scene := newDemoScene(g, log)
	g.Preload()
	g.SetAllLoadedCallback(scene.onAssetsLoaded)

	return g.Run(ctx, scene)
}
