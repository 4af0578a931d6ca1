package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/ratelimit"
)

// RateLimitMiddleware limits action per signed-in user, falling back to
// the client IP. Limiter failures let the request through.
func RateLimitMiddleware(limiter *ratelimit.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		clientID := UserID(c)
		if clientID == "" {
			clientID = "ip:" + c.ClientIP()
		}

		result, err := limiter.Check(c.Request.Context(), clientID, action)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
		if !result.Allowed {
			RecordRateLimited(action)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded", "code": "rate_limited"})
			c.Abort()
			return
		}
		c.Next()
	}
}
