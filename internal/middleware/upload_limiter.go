package middleware

import (
	"context"
	"errors"

	"xml-uploader/internal/utils"
	"xml-uploader/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ConcurrencyLimiter 并发槽位
type ConcurrencyLimiter interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string)
}

// UploadLimiter 限制同时进行的上传数量.
// 槽位已满返回429, 限制器本身不可用时放行请求
func UploadLimiter(limiter ConcurrencyLimiter, key string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		err := limiter.Acquire(c.Request.Context(), key)
		switch {
		case errors.Is(err, redis_limiter.ErrLimitReached):
			c.Set("reject_reason", "concurrency")
			utils.TooManyRequests(c, "too many concurrent uploads, retry later")
			c.Abort()
			return
		case err != nil:
			logger.WithError(err).Warn("上传并发限制不可用, 放行请求")
			c.Next()
			return
		}

		// 请求被取消时仍需释放槽位
		defer limiter.Release(context.Background(), key)
		c.Next()
	}
}
