package middleware

import (
	"time"

	"github.com/GoPolymarket/liqwatch/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		// route template keeps label cardinality bounded
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.LatencyBucket.WithLabelValues(endpoint).Observe(duration)
	}
}
