package api

import (
	"time"

	"github.com/alparslanahmed/milight"
	"github.com/gin-gonic/gin"
)

// LoggingMiddleware, her isteği durum kodu ve süresiyle loglar.
func LoggingMiddleware(logger milight.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Printf("[api] %s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
