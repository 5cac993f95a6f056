package main

import (
	"net/http"
	"time"

	"catalog-backend/internal/shared/middleware"
	"catalog-backend/internal/shared/response"
	"catalog-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(c.Metrics),
		middleware.CORS(),
	)

	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCategoryRoutes(v1, c)
		setupAdminCategoryRoutes(v1, c)
	}

	return router
}

// ========================================
// CATEGORY ROUTES (public, chỉ ACTIVE)
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	categories := v1.Group("/categories")
	{
		categories.GET("/tree", c.CategoryHandler.GetTree)
		categories.GET("/:id", c.CategoryHandler.GetByID)
		categories.GET("/:id/ancestors", c.CategoryHandler.GetAncestors)
	}
}

// ========================================
// ADMIN CATEGORY ROUTES
// ========================================
func setupAdminCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin/categories")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)
	{
		admin.POST("", c.CategoryHandler.Create)
		admin.GET("/tree", c.CategoryHandler.AdminTree)
		admin.GET("/export", c.CategoryHandler.Export)
		admin.GET("/snapshots", c.SnapshotHandler.List)
		admin.PUT("/:id", c.CategoryHandler.Update)
		admin.PATCH("/:id/status", c.CategoryHandler.ChangeStatus)
		admin.DELETE("/:id", c.CategoryHandler.Delete)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checks := c.HealthCheck(ctx.Request.Context())

		status := http.StatusOK
		if checks["database"] != "ok" {
			status = http.StatusServiceUnavailable
		}

		payload := gin.H{
			"status":  http.StatusText(status),
			"version": c.Config.App.Version,
			"time":    time.Now().UTC(),
			"checks":  checks,
			"db_pool": c.DB.Stats(),
		}

		if status != http.StatusOK {
			response.ErrorWithDetails(ctx, status, "UNHEALTHY", "dependency check failed", payload)
			return
		}
		response.Success(ctx, status, payload)
	}
}
