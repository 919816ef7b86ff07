// Package cache holds Redis-backed helpers.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeThrottle rate-limits login-code issuance per email address using
// a Redis SET NX key. A nil throttle (or one without a client) allows
// everything, so deployments without Redis keep working.
type CodeThrottle struct {
	client   *redis.Client
	interval time.Duration
}

// NewCodeThrottle creates a CodeThrottle. client may be nil.
func NewCodeThrottle(client *redis.Client, interval time.Duration) *CodeThrottle {
	return &CodeThrottle{client: client, interval: interval}
}

func throttleKey(email string) string {
	return fmt.Sprintf("logincode:throttle:%s", email)
}

// Allow reports whether a code may be issued for the email now. The
// first caller within the interval wins; later callers are refused
// until the key expires.
func (t *CodeThrottle) Allow(ctx context.Context, email string) (bool, error) {
	if t == nil || t.client == nil {
		return true, nil
	}

	ok, err := t.client.SetNX(ctx, throttleKey(email), 1, t.interval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check issue throttle: %w", err)
	}
	return ok, nil
}
