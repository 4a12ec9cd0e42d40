package redis_limiter

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerLimiter_PassesThrough(t *testing.T) {
	ctx := context.Background()
	rl, _ := newTestLimiter(t, 2)
	bl := NewBreakerLimiter(rl, time.Minute, nil)

	count, err := bl.RecordFailure(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = bl.RecordFailure(ctx, "a@example.com")
	require.NoError(t, err)

	blocked, err := bl.IsBlocked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, bl.Reset(ctx, "a@example.com"))
	blocked, err = bl.IsBlocked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBreakerLimiter_OpensWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	rl, mr := newTestLimiter(t, 5)
	bl := NewBreakerLimiter(rl, time.Minute, nil)
	mr.Close()

	for i := 0; i < 4; i++ {
		_, err := bl.IsBlocked(ctx, "a@example.com")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, bl.State())

	_, err := bl.RecordFailure(ctx, "a@example.com")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
