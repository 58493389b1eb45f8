package handlers

import (
	"time"

	"etalase/pkg/logx"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request through zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.URL.Path == "/ws" {
			return
		}
		ev := logx.Debug()
		if status := c.Writer.Status(); status >= 500 {
			ev = logx.Error()
		} else if status >= 400 {
			ev = logx.Info()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
