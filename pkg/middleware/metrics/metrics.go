// Package metrics provides HTTP metrics recording middleware.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/observability/metrics"
)

// Metrics creates middleware that records Prometheus metrics for HTTP
// requests: a duration histogram and counter labeled by method, route and
// status, plus an in-flight gauge. The route template is used as the path
// label to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.IncrementInFlight()
		defer metrics.DecrementInFlight()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPMetrics(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
