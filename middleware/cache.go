package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoCache disables client and proxy caching for the page surface so stale
// login state is never served.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
