package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/seattle-energy/internal/features"
	"github.com/stwalsh4118/seattle-energy/internal/middleware"
	"github.com/stwalsh4118/seattle-energy/internal/scoring"
	"github.com/stwalsh4118/seattle-energy/internal/services"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "1.0.0"
	// HealthCheckTimeout is the timeout for database health checks
	HealthCheckTimeout = 2 * time.Second
)

// Pinger is satisfied by *database.Database. It is nil when the catalog is
// read from a CSV file.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	catalog    services.CatalogService
	prediction services.PredictionService
	db         Pinger
	startTime  time.Time
	env        string
}

// NewHealthHandler creates a new HealthHandler instance. db may be nil.
func NewHealthHandler(catalog services.CatalogService, prediction services.PredictionService, db Pinger, env string) *HealthHandler {
	return &HealthHandler{
		catalog:    catalog,
		prediction: prediction,
		db:         db,
		startTime:  time.Now(),
		env:        env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Dataset  string `json:"dataset"`
	Model    string `json:"model"`
	Database string `json:"database,omitempty"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version        string                `json:"version"`
	Environment    string                `json:"environment"`
	Uptime         string                `json:"uptime"`
	ColumnsVersion string                `json:"columns_version"`
	Catalog        services.CatalogStats `json:"catalog"`
	DualTarget     bool                  `json:"dual_target"`
	Models         []scoring.ModelInfo   `json:"models"`
}

// Health handles GET /health endpoint.
// This is a basic liveness check that always returns 200 OK.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// The service is ready when the catalog is loaded, the energy pipeline is
// available and, for the postgres source, the database answers a ping.
// Returns 503 Service Unavailable otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	resp := ReadyResponse{Status: "ready", Dataset: "loaded", Model: "loaded"}
	ready := true

	if !h.catalog.Loaded() {
		resp.Dataset = "empty"
		ready = false
	}
	if !h.prediction.Ready() {
		resp.Model = "unavailable"
		ready = false
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
		defer cancel()

		resp.Database = "connected"
		if err := h.db.Ping(ctx); err != nil {
			if log := middleware.GetLogger(c); log != nil {
				log.Error("Database health check failed", err, map[string]interface{}{
					"timeout": HealthCheckTimeout.String(),
				})
			}
			resp.Database = "disconnected"
			ready = false
		}
	}

	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, uptime, catalog
// size and the loaded pipelines.
func (h *HealthHandler) Info(c *gin.Context) {
	targets := h.prediction.Targets()
	models := make([]scoring.ModelInfo, 0, len(targets))
	for _, t := range targets {
		models = append(models, scoring.Describe(t))
	}

	c.JSON(http.StatusOK, InfoResponse{
		Version:        APIVersion,
		Environment:    h.env,
		Uptime:         formatUptime(time.Since(h.startTime)),
		ColumnsVersion: features.ColumnsVersion,
		Catalog:        h.catalog.Stats(),
		DualTarget:     h.prediction.DualTarget(),
		Models:         models,
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
