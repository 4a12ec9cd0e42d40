package redis_limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 失败计数原子递增，并刷新锁定窗口
var recordFailureScript = redis.NewScript(
	`local count = redis.call('INCR', KEYS[1])
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	return count`,
)

// RedisLimiter 基于Redis的登录失败限制器
type RedisLimiter struct {
	client      *redis.Client
	maxFailures int
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisLimiter 创建登录失败限制器，ttl内失败maxFailures次后锁定
func NewRedisLimiter(client *redis.Client, maxFailures int, keyPrefix string, ttl time.Duration) *RedisLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisLimiter{
		client:      client,
		maxFailures: maxFailures,
		keyPrefix:   keyPrefix,
		ttl:         ttl,
	}
}

// IsBlocked 是否已被锁定
func (rl *RedisLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	current, err := rl.GetCurrent(ctx, key)
	if err != nil {
		return false, err
	}
	return current >= rl.maxFailures, nil
}

// RecordFailure 记录一次失败，返回窗口内的累计失败次数
func (rl *RedisLimiter) RecordFailure(ctx context.Context, key string) (int, error) {
	seconds := int(rl.ttl.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	result, err := recordFailureScript.Run(ctx, rl.client, []string{rl.keyPrefix + key}, seconds).Int()
	if err != nil {
		return 0, fmt.Errorf("执行Lua脚本失败: %w", err)
	}
	return result, nil
}

// Reset 清除失败计数
func (rl *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := rl.client.Del(ctx, rl.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("清除失败计数失败: %w", err)
	}
	return nil
}

// GetCurrent 获取当前失败次数
func (rl *RedisLimiter) GetCurrent(ctx context.Context, key string) (int, error) {
	current, err := rl.client.Get(ctx, rl.keyPrefix+key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("获取失败次数失败: %w", err)
	}
	return current, nil
}

// GetMaxFailures 获取允许的最大失败次数
func (rl *RedisLimiter) GetMaxFailures() int {
	return rl.maxFailures
}
