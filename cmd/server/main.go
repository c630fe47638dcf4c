package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sigrod-cmd/Examen-licencia/internal/config"
	"github.com/sigrod-cmd/Examen-licencia/internal/handlers"
	"github.com/sigrod-cmd/Examen-licencia/internal/middleware"
	"github.com/sigrod-cmd/Examen-licencia/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConfigureLogging(cfg.Logging); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.PerformanceMonitor(cfg.Relay.Timeout / 2))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(middleware.DefaultMaxBodySize))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	}

	handlers.SetupRoutes(router, &handlers.RouterConfig{
		RelayService:  container.RelayService,
		EnableMetrics: true,
		EnableSwagger: !cfg.IsProduction(),
	})

	// Responses can take as long as the provider call
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Relay.Timeout + 10*time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	logrus.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"profile": container.Profile.Name,
		"mode":    config.GetDeploymentMode(),
	}).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// In-flight relays get the full provider timeout to finish
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Relay.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
