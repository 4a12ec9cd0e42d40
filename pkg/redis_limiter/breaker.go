package redis_limiter

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerLimiter 为限制器加熔断，Redis连续失败后快速返回错误，避免每次登录都等待超时
type BreakerLimiter struct {
	inner *RedisLimiter
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerLimiter 包装限制器，连续失败超过3次后熔断，timeout后半开重试
func NewBreakerLimiter(inner *RedisLimiter, timeout time.Duration, logger *logrus.Logger) *BreakerLimiter {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "login-limiter",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("熔断器状态变化")
			}
		},
	})
	return &BreakerLimiter{inner: inner, cb: cb}
}

// IsBlocked 是否已被锁定
func (b *BreakerLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.IsBlocked(ctx, key)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// RecordFailure 记录一次失败
func (b *BreakerLimiter) RecordFailure(ctx context.Context, key string) (int, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.RecordFailure(ctx, key)
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// Reset 清除失败计数
func (b *BreakerLimiter) Reset(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Reset(ctx, key)
	})
	return err
}

// State 当前熔断状态
func (b *BreakerLimiter) State() gobreaker.State {
	return b.cb.State()
}
