package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beqaperanidze/prj-customer-notification/pkg/metrics"
)

// Metrics records request counts and latencies, labelled by route
// template rather than raw path to keep cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
