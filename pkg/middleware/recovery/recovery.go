// Package recovery provides panic recovery middleware.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/middleware/requestid"
	"github.com/cliptube/cliptube/pkg/observability/logger"
)

// Recovery creates middleware that recovers from panics in HTTP handlers.
// The panic is logged with its stack trace and the client receives a 500
// with a generic body; panic details never leak into the response.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID := requestid.GetRequestID(c.Request.Context())

				log.Error("panic recovered",
					"request_id", requestID,
					"panic", r,
					"stack", string(debug.Stack()),
				)

				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error":      "internal_server_error",
						"message":    "an unexpected error occurred",
						"request_id": requestID,
					})
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()
	}
}
