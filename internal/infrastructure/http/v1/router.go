// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/auth"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/movements"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/handlers"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/middleware"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres"
	"github.com/sebastiansledz/qrsaws-sub000/pkg/logger"
)

// RouterConfig wires the services into the HTTP surface.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWT         *auth.JWTService
	Credentials []handlers.Credential
	TokenTTL    time.Duration

	Clients   *client.Service
	Blades    *blade.Service
	Documents *wzpz.Service
	Recorder  *movements.Recorder
	Audit     *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Order matters: errors registered by inner handlers are rendered by
	// ErrorHandler on the way out.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/live", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Health)

	authHandler := handlers.NewAuthHandler(cfg.JWT, cfg.Credentials, cfg.TokenTTL)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/token", authHandler.Token)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWT))

		clientHandler := handlers.NewClientHandler(cfg.Clients)
		clients := protected.Group("/catalog/clients")
		{
			clients.GET("", clientHandler.List)
			clients.POST("", middleware.RequireAdmin(), clientHandler.Create)
			clients.GET("/:id", clientHandler.Get)
			clients.PUT("/:id", middleware.RequireAdmin(), clientHandler.Update)
			clients.DELETE("/:id", middleware.RequireAdmin(), clientHandler.Delete)
		}

		bladeHandler := handlers.NewBladeHandler(cfg.Blades, cfg.Recorder)
		blades := protected.Group("/catalog/blades")
		{
			blades.GET("", bladeHandler.List)
			blades.POST("", middleware.RequireAdmin(), bladeHandler.Create)
			blades.GET("/:id", bladeHandler.Get)
			blades.PUT("/:id", middleware.RequireAdmin(), bladeHandler.Update)
			blades.DELETE("/:id", middleware.RequireAdmin(), bladeHandler.Delete)
			blades.GET("/:id/qr", bladeHandler.QRLabel)
			blades.GET("/:id/movements", bladeHandler.Movements)
		}

		documentHandler := handlers.NewDocumentHandler(cfg.Documents, cfg.Clients, cfg.Blades)
		documents := protected.Group("/documents")
		{
			documents.GET("", documentHandler.List)
			documents.GET("/open", documentHandler.ListOpen)
			documents.POST("", documentHandler.Create)
			documents.GET("/:id", documentHandler.Get)
			documents.POST("/:id/items", documentHandler.AddItem)
			documents.POST("/:id/close", documentHandler.Close)
			documents.GET("/:id/pdf", documentHandler.PDF)
		}

		movementHandler := handlers.NewMovementHandler(cfg.Recorder)
		movementsGroup := protected.Group("/movements")
		{
			movementsGroup.GET("", movementHandler.List)
			movementsGroup.POST("", movementHandler.Record)
			movementsGroup.GET("/:id", movementHandler.Get)
		}

		if cfg.Audit != nil {
			auditHandler := handlers.NewAuditHandler(cfg.Audit)
			protected.GET("/audit/:entityType/:id", middleware.RequireAdmin(), auditHandler.History)
		}
	}

	return router
}
