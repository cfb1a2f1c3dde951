package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/pkarls/schackbord/internal/config"
	"github.com/pkarls/schackbord/internal/game"
	"github.com/pkarls/schackbord/internal/input"
	"github.com/pkarls/schackbord/internal/msgcat"
	"github.com/pkarls/schackbord/internal/obslog"
	"github.com/pkarls/schackbord/internal/render"
	"github.com/pkarls/schackbord/internal/resolver"
	"github.com/pkarls/schackbord/internal/server"
	"github.com/pkarls/schackbord/internal/table"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(cfg.MessageOverrideDir)
	if err != nil {
		logger.Fatal("message catalog init failed", zap.Error(err))
	}

	var gateway game.MoveGateway
	if cfg.ResolverURL != "" {
		gateway = resolver.NewRemote(cfg.ResolverURL, logger)
		logger.Info("using remote move resolver", zap.String("url", cfg.ResolverURL))
	} else {
		gateway = resolver.NewLocal(logger)
		logger.Info("using local move resolver")
	}

	mgr, err := table.NewManager(cfg.RedisURL, gateway, cfg.InitialPosition,
		time.Duration(cfg.SessionTTLSec)*time.Second, logger)
	if err != nil {
		logger.Fatal("session manager init failed", zap.Error(err))
	}
	defer func() { _ = mgr.Close() }()

	layout := input.NewLayout(cfg.CellSize)
	srv := server.New(mgr, render.NewPNGRenderer(layout), layout, catalog, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.Addr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Close(ctx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}
