// Package logging provides request logging middleware.
package logging

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/middleware/requestid"
	"github.com/cliptube/cliptube/pkg/observability/logger"
)

// RequestLogger creates middleware that logs one line per completed request
// with method, path, status, duration and the correlated request id.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if requestID := requestid.GetRequestID(c.Request.Context()); requestID != "" {
			fields = append(fields, "request_id", requestID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request completed", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
