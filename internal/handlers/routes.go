package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/seattle-energy/internal/middleware"
)

// RegisterRoutes mounts every endpoint on router. Middleware is the
// caller's concern.
func RegisterRoutes(router *gin.Engine, health *HealthHandler, catalog *CatalogHandler, prediction *PredictionHandler) {
	router.GET("/", Welcome)
	router.NoRoute(NoRoute)

	router.GET("/health", health.Health)
	router.GET("/health/ready", health.Ready)
	router.GET("/api/v1/info", health.Info)

	limit := middleware.BodyLimit(middleware.DefaultMaxBodyBytes)

	data := router.Group("/data")
	{
		data.GET("", catalog.Head)
		data.GET("/year/:year", catalog.ByYear)
		data.POST("/submit", limit, catalog.Submit)
	}

	router.POST("/predict", limit, prediction.Predict)
	router.POST("/predict_single", limit, prediction.Predict)
}
