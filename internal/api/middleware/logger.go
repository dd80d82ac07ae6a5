package middleware

import (
	"time"

	"sellsync/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger writes one access line per request through the service logger.
// Client errors log at warn, server errors at error.
func Logger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []interface{}{c.Request.Method, path, status, time.Since(start), c.ClientIP()}
		const format = "%s %s %d %s %s"

		switch {
		case status >= 500:
			logger.Error(format, args...)
		case status >= 400:
			logger.Warn(format, args...)
		default:
			logger.Info(format, args...)
		}
	}
}
