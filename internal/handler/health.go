package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frontera-ops/crossing-risk/internal/monitor"
)

// Pinger checks record store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and metrics endpoints.
type HealthHandler struct {
	store   Pinger
	metrics *monitor.Metrics
	watch   *monitor.FailureWatch
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger, metrics *monitor.Metrics, watch *monitor.FailureWatch) *HealthHandler {
	return &HealthHandler{store: store, metrics: metrics, watch: watch}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "unhealthy",
			"record_store": "disconnected",
		})
		return
	}

	status := "healthy"
	if h.watch != nil && h.watch.IsDegraded() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"record_store": "connected",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Metrics handles GET /v1/metrics
func (h *HealthHandler) Metrics(c *gin.Context) {
	body := gin.H{"metrics": h.metrics.Snapshot()}
	if h.watch != nil {
		body["detection"] = h.watch.Report()
	}
	c.JSON(http.StatusOK, body)
}
