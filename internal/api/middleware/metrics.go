package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/core/metrics"
)

// MetricsMiddleware creates middleware for collecting HTTP metrics
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		if collector != nil {
			status := strconv.Itoa(c.Writer.Status())
			collector.RecordHTTPRequest(c.Request.Method, path, status, time.Since(start).Seconds())
		}
	}
}
