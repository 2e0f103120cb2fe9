package middleware

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/observability"
)

// Logger prints a minimal request log line and feeds the HTTP metrics.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		reqID := GetRequestID(c)
		status := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusStr := strconv.Itoa(status)
		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, statusStr).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, statusStr).Observe(latency.Seconds())

		log.Printf("[HTTP] request_id=%s method=%s path=%s status=%d latency_ms=%.3f ip=%s",
			reqID,
			c.Request.Method,
			c.Request.URL.Path,
			status,
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
