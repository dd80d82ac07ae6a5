package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sellsync/internal/config"
	"sellsync/internal/database"
	"sellsync/internal/logger"
	"sellsync/internal/repository"
	"sellsync/internal/services/ebay"
	"sellsync/internal/syncer"
	"sellsync/internal/worker"
	"sellsync/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.NewForEnvironment(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if len(worker.Brokers(cfg.KafkaBrokers)) == 0 {
		logger.Fatal("KAFKA_BROKERS must be set to run the worker")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := repository.New(db.DB)
	oauth := ebay.NewOAuthService(cfg.Ebay, logger)
	tokens := ebay.NewTokenManager(store, oauth, logger)
	client := ebay.NewClient(ebay.EndpointsFor(cfg.Ebay), tokens, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	locker, closeLocker, err := syncer.NewLocker(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to set up sync lock: %v", err)
	}
	defer closeLocker()
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, sync lock is local to this process")
	}

	engine := syncer.NewEngine(client, store, locker, syncer.Config{
		PageSize:        cfg.Sync.PageSize,
		DefaultDaysBack: cfg.Sync.DefaultDaysBack,
		LockTTL:         cfg.Sync.LockTTL,
	}, logger)

	// Initialize worker
	w := worker.New(cfg, logger, processors.NewEventProcessor(engine, logger))

	// Start worker
	logger.Info("Starting worker...")
	go w.Start(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	w.Stop()
}
