package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/service"
)

// AnomalyHandler serves the ranked anomaly feed.
type AnomalyHandler struct {
	svc *service.AnomalyService
}

// NewAnomalyHandler creates a new AnomalyHandler.
func NewAnomalyHandler(svc *service.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{svc: svc}
}

// List handles GET /v1/anomalies?limit=N
func (h *AnomalyHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	anomalies, err := h.svc.DetectAnomalies(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	if anomalies == nil {
		anomalies = []domain.Anomaly{}
	}
	total := len(anomalies)
	if limit > 0 && limit < total {
		anomalies = anomalies[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"anomalies": anomalies,
		"count":     len(anomalies),
		"total":     total,
	})
}

// Summary handles GET /v1/anomalies/summary
func (h *AnomalyHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
