// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/config"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/counter"
	"inventory/internal/domain/documents"
	v1 "inventory/internal/infrastructure/http/v1"
	"inventory/internal/infrastructure/metrics"
	"inventory/internal/infrastructure/observability"
	"inventory/internal/infrastructure/storage"
	"inventory/pkg/logger"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	logger.SetDefault(log)
	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting inventory server", "driver", cfg.StorageDriver, "version", version)

	// --- Tracing ---
	_, shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		ServiceName:    "inventory",
		ServiceVersion: version,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalw("failed to set up tracing", "error", err)
	}

	// --- Storage ---
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", cfg.StorageDriver, "error", err)
	}

	// --- Services ---
	m := metrics.New()
	allocator := counter.NewAllocator(backend.Counters, cfg.Counter, counter.WithObserver(m))
	productService := product.NewService(backend.Products)
	documentService := documents.NewService(
		backend.Documents,
		documents.NewProductResolver(backend.Products, documents.DefaultLookupConcurrency),
		allocator,
		backend.TxManager,
	)
	if cfg.Counter.LegacySkipFirst {
		log.Warn("legacy counter numbering enabled: new concepts start at 2")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		Products:      productService,
		Documents:     documentService,
		Storage:       backend,
		StorageDriver: backend.Driver,
		Metrics:       m,
		Debug:         cfg.Development(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	if err := backend.Close(shutdownCtx); err != nil {
		log.Errorw("failed to close storage", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Errorw("failed to flush traces", "error", err)
	}

	log.Info("server stopped")
}
