// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockgap/internal/domain/auth"
	"stockgap/internal/domain/catalogs/salespoint"
	"stockgap/internal/domain/catalogs/warehouse"
	"stockgap/internal/domain/gap"
	"stockgap/internal/infrastructure/http/v1/handlers"
	"stockgap/internal/infrastructure/http/v1/middleware"
	"stockgap/internal/infrastructure/storage/postgres"
	"stockgap/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks).
	Pool *postgres.Pool

	// TxManager is injected into every request context by the Database
	// middleware; repositories resolve it from there.
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// GapService runs and serves analyses
	GapService *gap.Service

	// WarehouseService serves warehouse catalog reads
	WarehouseService *warehouse.Service

	// SalesPointRepo serves sales point catalog reads
	SalesPointRepo salespoint.Repository
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes: public endpoints need DB access but no JWT.
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

		publicAuth := v1.Group("/auth")
		publicAuth.Use(middleware.Database(cfg.TxManager))

		protectedAuth := v1.Group("/auth")
		protectedAuth.Use(middleware.Database(cfg.TxManager))
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		// Protected endpoints: Database first, then JWT.
		protected := v1.Group("")
		protected.Use(middleware.Database(cfg.TxManager))
		protected.Use(middleware.Auth(cfg.JWTValidator))
		protected.Use(middleware.RequireRole(auth.RoleAnalyst))

		gapHandler := handlers.NewGapHandler(baseHandler, cfg.GapService)
		gapHandler.RegisterRoutes(protected)

		catalogHandler := handlers.NewCatalogHandler(baseHandler, cfg.WarehouseService, cfg.SalesPointRepo)
		catalogHandler.RegisterRoutes(protected)
	}

	return router
}
