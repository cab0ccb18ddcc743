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

	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/api"
	"github.com/subhlabh/billing/internal/backoffice"
	"github.com/subhlabh/billing/internal/catalog"
	"github.com/subhlabh/billing/internal/config"
	"github.com/subhlabh/billing/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load the catalog snapshot for this session
	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	snapshot, err := service.LoadConfiguredSnapshot(loadCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	client := backoffice.NewClient(cfg.Backoffice, logger)
	billing := service.NewBillingService(catalog.NewIndex(snapshot), client, cfg.Shop, logger)
	router := api.NewRouter(cfg, billing, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting billing server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("catalog_source", cfg.Catalog.Source),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down billing server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
