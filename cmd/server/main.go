// Package main is the entry point for the QRSaws API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/auth"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/movements"
	v1 "github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/handlers"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/numerator"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres/document_repo"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres/movement_repo"
	"github.com/sebastiansledz/qrsaws-sub000/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting qrsaws server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// Allocator works on the raw pool, outside business transactions.
	allocator := numerator.New(pool.Pool)

	// --- Repositories ---
	clientRepo := catalog_repo.NewClientRepo(txManager)
	bladeRepo := catalog_repo.NewBladeRepo(txManager)
	documentRepo := document_repo.NewWZPZRepo(txManager)
	movementRepo := movement_repo.NewMovementRepo(txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// --- Services ---
	clientService := client.NewService(clientRepo, txManager, allocator, documentRepo, auditService)
	bladeService := blade.NewService(bladeRepo, txManager, allocator, auditService)
	documentService := wzpz.NewService(documentRepo, clientService, allocator, txManager, auditService)
	recorder := movements.NewRecorder(movementRepo, bladeService, documentService, txManager, auditService)

	// --- Auth ---
	jwtService := auth.NewJWTService(
		mustEnv("JWT_SECRET"),
		getEnv("JWT_ISSUER", "qrsaws"),
		getEnvDuration("JWT_TTL", 24*time.Hour),
	)
	credentials := []handlers.Credential{
		{
			ClientID:     mustEnv("API_CLIENT_ID"),
			ClientSecret: mustEnv("API_CLIENT_SECRET"),
			Name:         getEnv("API_CLIENT_NAME", "warehouse"),
			Admin:        true,
		},
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:        pool,
		Logger:      log,
		JWT:         jwtService,
		Credentials: credentials,
		TokenTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		Clients:     clientService,
		Blades:      bladeService,
		Documents:   documentService,
		Recorder:    recorder,
		Audit:       auditService,
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

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-statsCtx.Done():
				return
			case <-ticker.C:
				pool.LogStats(statsCtx)
			}
		}
	}()

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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
