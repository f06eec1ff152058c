// Package api serves the worker's operational endpoints: health probes and
// Prometheus metrics. Marketplace operations are not exposed over HTTP.
package api

import (
	"campodigital/api/health"
	"campodigital/api/middleware"
	"campodigital/config"
	"campodigital/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	healthController *health.Controller
}

// NewRouter Create route configuration
func NewRouter(cfg *config.Config, healthController *health.Controller) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters: the request id must exist before recovery and logging read it
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())

	return &Router{
		engine:           engine,
		config:           cfg,
		healthController: healthController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	r.healthController.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/health",
			"metrics": "/metrics",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
