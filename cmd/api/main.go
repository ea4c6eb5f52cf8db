package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/server"
	"github.com/gravadigital/election-portal/internal/storage/portraits"
	"github.com/gravadigital/election-portal/internal/storage/postgres"
)

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.Log.Level)
	log := logger.Get()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	portraitStore, err := portraits.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize portrait storage", "error", err)
	}
	if objects, ok := portraitStore.(*portraits.ObjectStore); ok {
		if err := objects.EnsureBucket(ctx); err != nil {
			log.Warn("Portrait bucket unavailable, uploads will fail", "error", err)
		}
	}

	srv := server.New(cfg, store, portraitStore)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Error("Graceful shutdown failed", "error", err)
		}
	}

	log.Info("Server exited")
}
