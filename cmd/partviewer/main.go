// Package main is the desktop part viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/partview/internal/catalog"
	"github.com/Faultbox/partview/internal/config"
	"github.com/Faultbox/partview/internal/desktop"
	"github.com/Faultbox/partview/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== partview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	cat := catalog.Engine()
	if cfg.Model.Catalog != "" {
		if cat, err = catalog.Load(cfg.Model.Catalog); err != nil {
			logger.Error("failed to load catalog", zap.Error(err))
			os.Exit(1)
		}
	}

	app, err := desktop.New(cfg, cat)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if cfg.Model.Path != "" {
		app.Open(cfg.Model.Path)
	} else {
		app.OpenDialog()
	}

	if err := app.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}
