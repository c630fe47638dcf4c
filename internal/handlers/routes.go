package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sigrod-cmd/Examen-licencia/internal/services"
	"github.com/sigrod-cmd/Examen-licencia/pkg/server"
)

// ServiceName is reported by the health endpoint
const ServiceName = "prompt-relay-api"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	RelayService  services.RelayService
	EnableMetrics bool
	EnableSwagger bool
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	generateHandler := NewGenerateHandler(config.RelayService)

	if config.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if config.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
			"version": server.Version,
			"profile": config.RelayService.Profile().Name,
		})
	})

	// Every method reaches the handler so it can answer 405 itself
	router.Any("/api/generate-image", generateHandler.Generate)

	v1 := router.Group("/api/v1")
	{
		v1.Any("/generate", generateHandler.Generate)
	}
}
