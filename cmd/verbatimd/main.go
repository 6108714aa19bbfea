package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"verbatim/internal/api"
	"verbatim/internal/config"
	"verbatim/internal/logging"
	"verbatim/internal/registry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	// One running server per data dir. The startup wipe below makes a second
	// instance destructive, not merely redundant.
	lockPath := filepath.Join(cfg.Paths.LogDir, "verbatimd.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("acquire lock %s: %v", lockPath, err)
	}
	if !locked {
		log.Fatalf("another verbatimd instance already holds %s", lockPath)
	}
	defer lock.Unlock() //nolint:errcheck

	reg := registry.New(cfg.Paths.DataDir, logger)
	defer reg.Close() //nolint:errcheck

	// Tenant datasets never outlive the process that ingested them.
	if err := reg.Reset(); err != nil {
		logger.Error("wipe tenant storage", logging.Error(err))
		return
	}

	server := api.NewServer(cfg, reg, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("serve", logging.Error(err))
		return
	}
	logger.Info("verbatimd shutting down")
}
