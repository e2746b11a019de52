package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle limits failed login attempts per email and source address
// using a Redis counter. It fails open: when Redis is unreachable the login
// flow proceeds rather than locking everyone out.
type LoginThrottle struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewLoginThrottle builds a throttle around the shared Redis client.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, max: max, window: window, logger: logger}
}

// Allow reports whether another login attempt is permitted.
func (t *LoginThrottle) Allow(ctx context.Context, email, remoteIP string) bool {
	if t == nil || t.client == nil {
		return true
	}
	count, err := t.client.Get(ctx, t.key(email, remoteIP)).Int()
	if err != nil {
		if err != redis.Nil && t.logger != nil {
			t.logger.Warn("login throttle unavailable", zap.Error(err))
		}
		return true
	}
	return count < t.max
}

// Record registers a failed attempt, starting the window on the first one.
func (t *LoginThrottle) Record(ctx context.Context, email, remoteIP string) {
	if t == nil || t.client == nil {
		return
	}
	key := t.key(email, remoteIP)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil && t.logger != nil {
		t.logger.Warn("login throttle record failed", zap.Error(err))
	}
}

func (t *LoginThrottle) key(email, remoteIP string) string {
	return fmt.Sprintf("login_attempts:%s:%s", email, remoteIP)
}
