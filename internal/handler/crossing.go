package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/service"
)

// CrossingHandler lists stored crossing records.
type CrossingHandler struct {
	svc *service.CrossingService
}

// NewCrossingHandler creates a new CrossingHandler.
func NewCrossingHandler(svc *service.CrossingService) *CrossingHandler {
	return &CrossingHandler{svc: svc}
}

// List handles GET /v1/crossings?from=&to= (RFC3339, both optional)
func (h *CrossingHandler) List(c *gin.Context) {
	var filter domain.RecordFilter
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, p.name+" must be an RFC3339 timestamp")
			return
		}
		*p.dst = &t
	}

	records, err := h.svc.ListCrossings(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"crossings": records,
		"count":     len(records),
		"filter":    filter,
	})
}
