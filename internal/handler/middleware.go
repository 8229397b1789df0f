package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frontera-ops/crossing-risk/internal/idgen"
	"github.com/frontera-ops/crossing-risk/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags the request context with an ID and a logger, reusing the
// caller's X-Request-ID when present.
func RequestID(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = idgen.WithPrefix("req_")
		}

		ctx := logging.WithRequestID(c.Request.Context(), reqID)
		ctx = logging.WithLogger(ctx, logger)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, reqID)

		c.Next()
	}
}

// Logging logs every completed request, at a level chosen by status code.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		logger := logging.L(c.Request.Context())
		switch {
		case status >= 500:
			logger.Error("request completed", append(attrs, "client_ip", c.ClientIP())...)
		case status >= 400:
			logger.Warn("request completed", attrs...)
		default:
			logger.Info("request completed", attrs...)
		}
	}
}

// Recovery recovers from panics and returns 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "an unexpected error occurred",
		})
	})
}
