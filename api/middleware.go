package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"sndeals/logging"
)

// RequestLogger 每个请求结束后记录一条日志，5xx 为 error 级别
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= 500 {
			logger.Error(c.Request.Context(), "request", fields...)
			return
		}
		logger.Debug(c.Request.Context(), "request", fields...)
	}
}
