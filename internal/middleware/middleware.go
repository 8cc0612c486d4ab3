package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/pkg/logger"
)

// RequestLogger logs each request with its correlation ID after completion.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info().
			Str("requestId", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request completed")
	}
}
