package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/logging"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps service errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidRecord):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
	case errors.Is(err, domain.ErrUpstreamFetch):
		c.JSON(http.StatusBadGateway, errorResponse{Error: "upstream_unavailable", Message: "crossing records could not be retrieved"})
	default:
		logging.L(c.Request.Context()).Error("unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "an unexpected error occurred"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: msg})
}
