package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type visitor struct {
	limiter  *time.Ticker
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. Used on the login route to
// damp credential guessing.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	interval time.Duration
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		interval: time.Minute / time.Duration(requestsPerMinute),
	}
	go rl.cleanup()
	return rl
}

// Handler is the gin middleware enforcing the limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		rl.mu.Lock()

		v, exists := rl.visitors[ip]
		if !exists {
			rl.visitors[ip] = &visitor{time.NewTicker(rl.interval), time.Now()}
			rl.mu.Unlock()
			c.Next()
			return
		}

		v.lastSeen = time.Now()
		rl.mu.Unlock()

		select {
		case <-v.limiter.C:
			c.Next()
		default:
			c.String(http.StatusTooManyRequests, "too many requests")
			c.Abort()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				v.limiter.Stop()
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
