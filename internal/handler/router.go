package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/frontera-ops/crossing-risk/internal/monitor"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Health    *HealthHandler
	Anomalies *AnomalyHandler
	Risk      *RiskHandler
	Crossings *CrossingHandler
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(logger *slog.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(Recovery())
	r.Use(monitor.Middleware())
	r.Use(RequestID(logger))
	r.Use(Logging())

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", monitor.Handler())

	v1 := r.Group("/v1")
	{
		v1.GET("/anomalies", h.Anomalies.List)
		v1.GET("/anomalies/summary", h.Anomalies.Summary)
		v1.POST("/risk/assess", h.Risk.Assess)
		v1.GET("/crossings", h.Crossings.List)
		v1.GET("/metrics", h.Health.Metrics)
	}
	return r
}
