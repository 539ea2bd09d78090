package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access-log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Printf("[%s] %s %s %d %v",
			c.Request.Method,
			c.ClientIP(),
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
