package middleware

import (
	"time"

	"github.com/aurum-labs/jewel-studio/monitor"
	"github.com/gin-gonic/gin"
)

// GenerationMetrics records latency and outcome of the generation routes.
func GenerationMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		registry := monitor.Default()
		registry.IncrementConcurrent()
		startTime := time.Now()
		defer func() {
			registry.DecrementConcurrent()
			registry.Record(c.FullPath(), time.Since(startTime), c.Writer.Status())
		}()
		c.Next()
	}
}
