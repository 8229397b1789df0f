package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/service"
)

// RiskHandler scores single crossing requests.
type RiskHandler struct {
	svc *service.RiskService
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(svc *service.RiskService) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// Assess handles POST /v1/risk/assess
func (h *RiskHandler) Assess(c *gin.Context) {
	var req domain.RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	assessment, err := h.svc.Assess(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}
