package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"team-planner/backend/pkg/ratelimit"
	"team-planner/backend/pkg/response"
)

// RateLimit 按 客户端 IP + 路由 限流
// limiter 为 nil 时不限流；限流器出错时降级放行
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.FullPath()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
