package middleware

import (
	"strconv"
	"time"

	"tpv/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ruta := c.FullPath()
		if ruta == "" {
			ruta = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(ruta, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuracion.WithLabelValues(ruta, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
