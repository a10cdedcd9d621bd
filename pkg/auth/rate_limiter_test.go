package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewSlidingWindowLimiter(3, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within limit", i+1)
	}

	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "fourth request in the window is rejected")

	t.Run("keys are independent", func(t *testing.T) {
		ok, err := l.Allow(ctx, "other")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("window slides", func(t *testing.T) {
		time.Sleep(60 * time.Millisecond)
		ok, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("reset forgets history", func(t *testing.T) {
		tight := NewSlidingWindowLimiter(1, time.Minute)
		ok, _ := tight.Allow(ctx, "k")
		require.True(t, ok)
		ok, _ = tight.Allow(ctx, "k")
		require.False(t, ok)

		require.NoError(t, tight.Reset(ctx, "k"))
		ok, _ = tight.Allow(ctx, "k")
		assert.True(t, ok)
	})
}

func TestKeyedLimiters(t *testing.T) {
	ctx := context.Background()

	ip := NewIPRateLimiter(1)
	ok, _ := ip.Allow(ctx, "10.0.0.1")
	require.True(t, ok)
	ok, _ = ip.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)
	ok, _ = ip.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "addresses do not share a budget")

	user := NewUserRateLimiter(1)
	ok, _ = user.Allow(ctx, "u1")
	require.True(t, ok)
	ok, _ = user.Allow(ctx, "u2")
	assert.True(t, ok, "users do not share a budget")
}
