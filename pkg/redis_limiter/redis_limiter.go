package redis_limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrLimitReached 并发槽位已满
var ErrLimitReached = errors.New("concurrency limit reached")

// acquireScript 原子地占用一个槽位
// 1. 获取当前值
// 2. 如果当前值小于最大并发数，则增加1并设置过期时间，返回新值
// 3. 否则返回当前值+1 表示失败
var acquireScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == false then
	current = 0
else
	current = tonumber(current)
end

if current >= tonumber(ARGV[1]) then
	return current + 1
end

local newCount = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
return newCount`)

// releaseScript 原子地释放槽位, 计数归零时删除key
var releaseScript = redis.NewScript(`
local count = redis.call('DECR', KEYS[1])
if tonumber(count) <= 0 then
	redis.call('DEL', KEYS[1])
	return 0
else
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	return count
end`)

// RedisLimiter 基于Redis的并发限制器, 多个实例共享同一组槽位
type RedisLimiter struct {
	client        redis.Scripter
	maxConcurrent int
	keyPrefix     string
	ttl           time.Duration
	logger        *logrus.Logger
}

// NewRedisLimiter 创建基于Redis的并发限制器
func NewRedisLimiter(client redis.Scripter, maxConcurrent int, keyPrefix string, ttl time.Duration, logger *logrus.Logger) *RedisLimiter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisLimiter{
		client:        client,
		maxConcurrent: maxConcurrent,
		keyPrefix:     keyPrefix,
		ttl:           ttl,
		logger:        logger,
	}
}

// Acquire 获取并发槽位, 槽位已满时返回 ErrLimitReached
func (rl *RedisLimiter) Acquire(ctx context.Context, key string) error {
	redisKey := rl.keyPrefix + key

	result, err := acquireScript.Run(ctx, rl.client, []string{redisKey}, rl.maxConcurrent, rl.ttlSeconds()).Int()
	if err != nil {
		return fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	if result > rl.maxConcurrent {
		rl.logger.WithFields(logrus.Fields{
			"key":     key,
			"current": result - 1,
			"max":     rl.maxConcurrent,
		}).Warn("并发槽位已满")
		return ErrLimitReached
	}

	rl.logger.WithFields(logrus.Fields{"key": key, "current": result}).Debug("成功获取槽位")
	return nil
}

// Release 释放并发槽位
func (rl *RedisLimiter) Release(ctx context.Context, key string) {
	redisKey := rl.keyPrefix + key

	result, err := releaseScript.Run(ctx, rl.client, []string{redisKey}, rl.ttlSeconds()).Int()
	if err != nil {
		rl.logger.WithError(err).WithField("key", key).Error("释放槽位失败")
		return
	}

	rl.logger.WithFields(logrus.Fields{"key": key, "remaining": result}).Debug("成功释放槽位")
}

// GetCurrent 获取当前并发数
func (rl *RedisLimiter) GetCurrent(ctx context.Context, key string) (int, error) {
	getter, ok := rl.client.(redis.Cmdable)
	if !ok {
		return 0, fmt.Errorf("redis客户端不支持GET")
	}
	current, err := getter.Get(ctx, rl.keyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("获取当前并发数失败: %w", err)
	}
	return current, nil
}

// GetMaxConcurrent 获取最大并发数
func (rl *RedisLimiter) GetMaxConcurrent() int {
	return rl.maxConcurrent
}

func (rl *RedisLimiter) ttlSeconds() int {
	seconds := int(rl.ttl.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return seconds
}
