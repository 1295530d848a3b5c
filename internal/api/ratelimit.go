package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// maxClients bounds how many per-client buckets are tracked. The least
// recently seen client is evicted first and starts with a full bucket if it
// comes back.
const maxClients = 4096

// RateLimitMiddleware gives every client IP its own token bucket of rps
// requests per second with a burst of rps.
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	clients, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}

	limiterFor := func(ip string) *rate.Limiter {
		if l, ok := clients.Get(ip); ok {
			return l
		}
		l := rate.NewLimiter(rate.Limit(rps), rps)
		// a concurrent first request from the same IP keeps whichever bucket won
		if prev, ok, _ := clients.PeekOrAdd(ip, l); ok {
			return prev
		}
		return l
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiterFor(ip).Allow() {
			slog.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
