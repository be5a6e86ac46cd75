// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/documents"
	"inventory/internal/infrastructure/http/v1/handlers"
	"inventory/internal/infrastructure/http/v1/middleware"
	"inventory/internal/infrastructure/metrics"
	"inventory/pkg/logger"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Products backs /product
	Products *product.Service

	// Documents backs /document
	Documents *documents.Service

	// Storage is pinged by the readiness probe
	Storage handlers.Pinger

	// StorageDriver names the backend in health responses
	StorageDriver string

	// Metrics is optional; when set, requests are measured and /metrics is exposed
	Metrics *metrics.Metrics

	// Debug keeps gin in debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Storage, cfg.StorageDriver)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	base := handlers.NewBaseHandler()
	handlers.NewProductHandler(base, cfg.Products).RegisterRoutes(router.Group("/product"))
	handlers.NewDocumentHandler(base, cfg.Documents).RegisterRoutes(router.Group("/document"))

	return router
}
