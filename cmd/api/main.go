package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sellsync/internal/api"
	"sellsync/internal/api/handlers"
	"sellsync/internal/config"
	"sellsync/internal/database"
	"sellsync/internal/importer"
	"sellsync/internal/logger"
	"sellsync/internal/repository"
	"sellsync/internal/services/ebay"
	"sellsync/internal/spreadsheet"
	"sellsync/internal/syncer"
	"sellsync/internal/worker"
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

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := repository.New(db.DB)

	// Marketplace
	oauth := ebay.NewOAuthService(cfg.Ebay, logger)
	tokens := ebay.NewTokenManager(store, oauth, logger)
	client := ebay.NewClient(ebay.EndpointsFor(cfg.Ebay), tokens, logger)
	if !cfg.EbayConfigured() {
		logger.Warn("EBAY_CLIENT_ID/EBAY_CLIENT_SECRET not set, eBay connect is disabled")
	}

	locker, closeLocker, err := syncer.NewLocker(context.Background(), cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to set up sync lock: %v", err)
	}
	defer closeLocker()

	engine := syncer.NewEngine(client, store, locker, syncer.Config{
		PageSize:        cfg.Sync.PageSize,
		DefaultDaysBack: cfg.Sync.DefaultDaysBack,
		LockTTL:         cfg.Sync.LockTTL,
	}, logger)

	// Spreadsheet import
	dialect, err := spreadsheet.ParseDialect(cfg.Spreadsheet.SalesDialect)
	if err != nil {
		logger.Fatal("Invalid spreadsheet configuration: %v", err)
	}
	imports := importer.NewService(spreadsheet.NewParser(dialect, logger), store, logger)

	// Background sync is optional
	var publisher handlers.SyncPublisher
	if brokers := worker.Brokers(cfg.KafkaBrokers); len(brokers) > 0 {
		p := worker.NewPublisher(brokers, cfg.KafkaSyncTopic)
		defer p.Close()
		publisher = p
		logger.Info("Async sync enabled on topic %s", cfg.KafkaSyncTopic)
	}

	// Initialize API server
	server := api.New(cfg, logger, api.Services{
		Store:     store,
		OAuth:     oauth,
		States:    ebay.NewStateSigner(cfg.JWTSecret),
		Profiles:  client,
		Engine:    engine,
		Importer:  imports,
		Publisher: publisher,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
