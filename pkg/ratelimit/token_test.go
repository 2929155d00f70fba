package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_Wait(t *testing.T) {
	l := NewTokenLimiter(100)

	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 40, l.GetRemaining())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx, 60)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 40, l.GetRemaining())
}

func TestTokenLimiter_Refill(t *testing.T) {
	l := NewTokenLimiter(100)
	current := time.Now()
	l.now = func() time.Time { return current }

	require.NoError(t, l.Wait(context.Background(), 100))
	assert.Equal(t, 0, l.GetRemaining())

	current = current.Add(time.Minute)
	require.NoError(t, l.Wait(context.Background(), 30))
	assert.Equal(t, 70, l.GetRemaining())
}

func TestTokenLimiter_OversizedRequest(t *testing.T) {
	l := NewTokenLimiter(10)

	require.NoError(t, l.Wait(context.Background(), 50))
	assert.Equal(t, 0, l.GetRemaining())
}
