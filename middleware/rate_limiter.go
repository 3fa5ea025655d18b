// api/middleware/rate_limiter.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/db"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/util"
)

func RateLimiter(limit int, per time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		allowed, err := db.RateLimit(c, key, limit, per)
		if err != nil {
			logger.Error("Rate limiting failed", zap.Error(err), zap.String("ip", key))
			c.JSON(http.StatusInternalServerError, util.Envelope{Code: http.StatusInternalServerError, Msg: "Rate limiting failed"})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", key),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.JSON(http.StatusTooManyRequests, util.Envelope{Code: http.StatusTooManyRequests, Msg: "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
