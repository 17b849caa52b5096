package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-press/inkwell/internal/infrastructure/ratelimit"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
	"github.com/inkwell-press/inkwell/internal/shared/utils"
)

// RateLimit throttles a route group by client IP. Limiter failures fail open:
// a Redis outage degrades throttling, not the endpoint itself.
func RateLimit(limiter ratelimit.Limiter, log logger.Interface, scope string, limit ratelimit.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			log.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		if !allowed {
			log.Infow("request rate limited", "scope", scope, "ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
