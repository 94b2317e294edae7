package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
)

// slowThreshold marks requests that warrant a warning instead of an info log.
const slowThreshold = 3 * time.Second

var skipPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// AccessLog records one structured log line per request. Server errors log at
// error level, client errors and slow requests at warn.
func AccessLog(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, skip := skipPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", elapsed),
			logging.String("request_id", GetRequestID(c)),
			logging.String("remote_addr", c.ClientIP()),
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400 || elapsed > slowThreshold:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
