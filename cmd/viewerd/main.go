// Package main runs the browser viewer: it serves the page, the model and a
// WebSocket session per connected viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/partview/internal/assets"
	"github.com/Faultbox/partview/internal/catalog"
	"github.com/Faultbox/partview/internal/config"
	"github.com/Faultbox/partview/internal/logger"
	"github.com/Faultbox/partview/internal/server"
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

	logger.Info("=== partview server ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	cat, err := loadCatalog(cfg.Model.Catalog)
	if err != nil {
		logger.Error("failed to load catalog", zap.Error(err))
		os.Exit(1)
	}

	manager := assets.NewManager()
	defer manager.Close()

	srv := server.New(cfg, cat, manager)

	if cfg.Model.Watch && cfg.Model.Path != "" {
		w, err := assets.Watch(cfg.Model.Path, manager, assets.DefaultDebounce, func(string) { srv.Reload() })
		if err != nil {
			logger.Warn("model watch disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Engine(), nil
	}
	return catalog.Load(path)
}
