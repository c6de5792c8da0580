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

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/seattle-energy/internal/config"
	"github.com/stwalsh4118/seattle-energy/internal/database"
	"github.com/stwalsh4118/seattle-energy/internal/features"
	"github.com/stwalsh4118/seattle-energy/internal/handlers"
	"github.com/stwalsh4118/seattle-energy/internal/logger"
	"github.com/stwalsh4118/seattle-energy/internal/middleware"
	"github.com/stwalsh4118/seattle-energy/internal/repository"
	"github.com/stwalsh4118/seattle-energy/internal/scoring"
	"github.com/stwalsh4118/seattle-energy/internal/services"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

const (
	shutdownTimeout = 30 * time.Second
	startupTimeout  = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithOptions(cfg.Server.Env, cfg.Server.LogLevel, os.Stdout)
	log.Info("Starting Seattle energy API", map[string]interface{}{
		"version":        handlers.APIVersion,
		"environment":    cfg.Server.Env,
		"port":           cfg.Server.Port,
		"catalog_source": cfg.Catalog.Source,
	})

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Catalog source: CSV by default, PostgreSQL when configured
	var (
		catalogRepo repository.CatalogRepository
		pinger      handlers.Pinger
	)
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()

		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})
		catalogRepo = repository.NewPostgresCatalogRepository(db, cfg.Catalog.Table)
		pinger = db
	default:
		catalogRepo = repository.NewCSVCatalogRepository(cfg.Catalog.Path)
	}

	dataset := services.LoadCatalog(ctx, catalogRepo, log)

	// Prediction pipeline: validator -> aligner -> invoker
	validator, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build validator", err, nil)
	}

	aligner, err := features.NewAligner(features.ColumnsV1)
	if err != nil {
		log.Fatal("Failed to build feature aligner", err, nil)
	}

	encoding, err := features.ParseEncoding(cfg.Models.AbsentEncoding)
	if err != nil {
		log.Fatal("Invalid absent feature encoding", err, nil)
	}

	opts := scoring.LoadOptions{
		Columns:  features.ColumnsV1,
		Timeout:  cfg.Models.ScorerTimeout,
		Encoding: encoding,
	}

	energy := loadTarget(log, "energy", cfg.Models.Energy, opts)

	var emissions *scoring.Target
	if cfg.Models.Emissions.Enabled() {
		t := loadTarget(log, "emissions", cfg.Models.Emissions, opts)
		emissions = &t
	}

	invoker, err := scoring.NewInvoker(energy, emissions)
	if err != nil {
		log.Fatal("Failed to build prediction invoker", err, nil)
	}

	catalogService := services.NewCatalogService(dataset, catalogRepo.Source(), cfg.Catalog.HeadRows, validator, log)
	predictionService := services.NewPredictionService(validator, aligner, invoker, log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	handlers.RegisterRoutes(router,
		handlers.NewHealthHandler(catalogService, predictionService, pinger, cfg.Server.Env),
		handlers.NewCatalogHandler(catalogService),
		handlers.NewPredictionHandler(predictionService),
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// loadTarget loads one pipeline. A missing or mismatched artifact is logged
// and the target is kept as unavailable so the rest of the API still serves.
func loadTarget(log *logger.Logger, name string, cfg config.TargetConfig, opts scoring.LoadOptions) scoring.Target {
	target, err := scoring.LoadTarget(name, cfg, opts)
	if err != nil {
		kind := "load_error"
		if errors.Is(err, scoring.ErrArtifactNotFound) {
			kind = "not_found"
		}
		log.Error("Prediction pipeline unavailable", err, map[string]interface{}{
			"target": name,
			"path":   cfg.Path,
			"kind":   kind,
		})
		return target
	}

	info := scoring.Describe(target)
	log.Info("Prediction pipeline loaded", map[string]interface{}{
		"target":     name,
		"source":     info.Source,
		"name":       info.Name,
		"version":    info.Version,
		"url":        info.URL,
		"log_target": info.LogTarget,
	})
	return target
}
