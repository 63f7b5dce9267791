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

	"shopwidget/internal/api"
	"shopwidget/internal/cartstore"
	"shopwidget/internal/catalog"
	"shopwidget/internal/config"
	"shopwidget/internal/images"
	"shopwidget/internal/logger"
	"shopwidget/internal/widget"
	"shopwidget/internal/worker"

	"github.com/google/uuid"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize cart storage
	carts, closeCarts, err := cartstore.Open(cfg.StorageURL, cfg.CartTTL)
	if err != nil {
		logger.Fatal("Failed to open cart storage: %v", err)
	}
	defer closeCarts()

	// Each mount gets its own cart key unless one is pinned in config.
	mountID := cfg.CartKey
	if mountID == "" {
		mountID = uuid.New().String()
	}

	source := catalog.NewClient(cfg.CatalogBaseURL, logger)
	store := widget.New(source, carts, cartstore.Key(mountID), logger)
	resolver := images.NewResolver(cfg.AssetHost, cfg.PlaceholderImage)

	// Initialize API server
	server := api.New(cfg, logger, store, resolver)

	// Catalog refresh worker, only when brokers are configured
	var w *worker.Worker
	if cfg.KafkaBrokers != "" {
		w = worker.New(cfg, logger, store)
		go w.Start()
	}

	// Start server
	go func() {
		logger.Info("Starting widget API on port " + cfg.APIPort)
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if w != nil {
		w.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Destroy(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}
