package middleware

import (
	"time"

	"gestloc/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records a duration sample per request.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		m.ObserveRequest(c.Request.Method, endpoint, c.Writer.Status(), start)
	}
}
