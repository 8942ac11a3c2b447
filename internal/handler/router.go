package handler

import (
	"context"
	"net/http"

	"agenda/internal/middleware"
	"agenda/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterDeps wires the HTTP surface together.
type RouterDeps struct {
	Auth       *AuthHandler
	Contacts   *ContactHandler
	Categories *CategoryHandler

	// AuthMW guards contact routes; nil leaves them open.
	AuthMW gin.HandlerFunc
	// UploadsDir is served under /uploads when photos live on local disk.
	UploadsDir string
	// Health reports storage health for GET /health; nil means always healthy.
	Health func(ctx context.Context) error

	Log *zap.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(d.Log), middleware.RequestLogger(d.Log), middleware.CORS())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API da Agenda está rodando!"})
	})
	router.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})
	if d.UploadsDir != "" {
		router.Static(storage.URLPrefix, d.UploadsDir)
	}

	apiGroup := router.Group("/api")
	d.Auth.RegisterAuthRoutes(apiGroup)
	d.Categories.RegisterCategoryRoutes(apiGroup)
	d.Contacts.RegisterContactRoutes(apiGroup, d.AuthMW)

	return router
}
