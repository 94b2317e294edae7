// Package http assembles the gin route tree and the HTTP server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CaseLens/internal/interfaces/http/handlers"
	"github.com/turtacn/CaseLens/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and infrastructure the route tree
// needs. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	EvaluationHandler *handlers.EvaluationHandler
	ReportHandler     *handlers.ReportHandler
	HealthHandler     *handlers.HealthHandler

	Metrics *prometheus.Metrics
	Logger  logging.Logger
	Mode    string
}

// NewRouter builds the full route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.AccessLog(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Live)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	v1 := r.Group("/api/v1")
	if cfg.EvaluationHandler != nil {
		v1.POST("/evaluations", cfg.EvaluationHandler.Evaluate)
		v1.POST("/evaluations/async", cfg.EvaluationHandler.EvaluateAsync)
		v1.POST("/comparisons", cfg.EvaluationHandler.Compare)
	}
	if cfg.ReportHandler != nil {
		v1.GET("/reports", cfg.ReportHandler.List)
		v1.GET("/reports/:id", cfg.ReportHandler.Get)
	}

	return r
}
