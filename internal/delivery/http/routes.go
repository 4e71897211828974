package http

import (
	"github.com/carboncart/backend/config"
	"github.com/carboncart/backend/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := util.Named("access")
	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(PrometheusMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Path used by the extension's background relay
	router.POST("/api/recalculate", handler.Recalculate)

	v1 := router.Group("/api/v1")
	{
		cart := v1.Group("/cart")
		{
			cart.POST("/reconcile", handler.ReconcileCart)
			cart.POST("/recalculate", handler.Recalculate)
			cart.POST("/refresh", handler.RefreshCart)
			cart.POST("/optimize", handler.OptimizeCart)
		}

		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/:id", handler.GetProduct)
			products.POST("", handler.SaveProduct)
		}
	}

	return router
}
