// Package ratelimit budgets generative model usage.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter is a fixed one-minute window of model tokens.
type TokenLimiter struct {
	mu          sync.Mutex
	capacity    int
	remaining   int
	window      time.Duration
	windowStart time.Time
	now         func() time.Time
}

func NewTokenLimiter(tokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		capacity:    tokensPerMinute,
		remaining:   tokensPerMinute,
		window:      time.Minute,
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// Wait takes tokens from the current window, sleeping until the next window
// when they do not fit. A request larger than capacity is admitted against a
// fresh window.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		delay, ok := l.take(tokens)
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *TokenLimiter) take(tokens int) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if elapsed := now.Sub(l.windowStart); elapsed >= l.window {
		l.remaining = l.capacity
		l.windowStart = now
	}

	fresh := l.remaining == l.capacity
	if tokens <= l.remaining || (tokens > l.capacity && fresh) {
		l.remaining = max(l.remaining-tokens, 0)
		return 0, true
	}
	return l.windowStart.Add(l.window).Sub(now), false
}

func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}
