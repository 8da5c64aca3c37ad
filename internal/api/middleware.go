package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edutanks/aquasim/internal/platform/logger"
)

func RequestLoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		log.Info("Request: %s %s, Status: %d, Latency: %v", method, path, status, latency)
	}
}
