// Package main is the entry point for the stockgap API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockgap/internal/domain/auth"
	"stockgap/internal/domain/catalogs/warehouse"
	"stockgap/internal/domain/gap"
	v1 "stockgap/internal/infrastructure/http/v1"
	"stockgap/internal/infrastructure/storage/postgres"
	"stockgap/internal/infrastructure/storage/postgres/auth_repo"
	"stockgap/internal/infrastructure/storage/postgres/catalog_repo"
	"stockgap/internal/infrastructure/storage/postgres/gap_repo"
	"stockgap/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockgap server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 25); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go reportPoolStats(statsCtx, pool, getEnvInt("DB_STATS_INTERVAL_SEC", 60))

	txManager := postgres.NewTxManager(pool)

	// --- JWT and auth ---
	jwtSecret := getEnv("JWT_SECRET", "change-me-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// Repos get TxManager from context per-request
	authService := auth.NewService(auth_repo.NewUserRepo(), jwtService, auth.DefaultServiceConfig())

	// --- Catalogs ---
	warehouseRepo := catalog_repo.NewWarehouseRepo()
	locationRepo := catalog_repo.NewLocationRepo()
	productRepo := catalog_repo.NewProductRepo()
	salesPointRepo := catalog_repo.NewSalesPointRepo()

	warehouseService := warehouse.NewService(warehouseRepo)

	// --- Gap analysis ---
	gapService := gap.NewService(
		warehouseRepo,
		locationRepo,
		productRepo,
		salesPointRepo,
		gap_repo.NewGapRepo(),
	)

	runLog, err := postgres.NewRunAuditLog()
	if err != nil {
		log.Fatalw("failed to initialize run audit log", "error", err)
	}
	gapService = gapService.WithRecorder(runLog)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		TxManager:        txManager,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		GapService:       gapService,
		WarehouseService: warehouseService,
		SalesPointRepo:   salesPointRepo,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// reportPoolStats periodically logs connection pool statistics.
func reportPoolStats(ctx context.Context, pool *postgres.Pool, intervalSec int) {
	if intervalSec <= 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			postgres.LogPoolStats(ctx, pool.Pool)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
