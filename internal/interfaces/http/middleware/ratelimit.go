package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/infrastructure/ratelimit"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// RateLimiter applies Redis fixed-window limits per client IP. Counters
// live in Redis so every instance shares them.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit allows perMinute requests per IP within scope. Scopes keep the
// booking and webhook budgets apart.
func (rl *RateLimiter) Limit(scope string, perMinute int) gin.HandlerFunc {
	cfg := ratelimit.RateLimitConfig{RequestsPerMinute: perMinute}
	return func(c *gin.Context) {
		if perMinute <= 0 {
			c.Next()
			return
		}

		key := "http:" + scope + ":" + c.ClientIP()
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, cfg)
		if err != nil {
			// Redis being down must not take the API with it.
			rl.logger.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(perMinute))
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
