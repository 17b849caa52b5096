// Package ratelimit throttles abuse-prone endpoints such as login and the
// top-up webhook.
package ratelimit

import (
	"context"
	"time"
)

// Limit caps requests per rolling window. A zero field disables that window.
type Limit struct {
	PerMinute int
	PerHour   int
}

type Limiter interface {
	// Allow reports whether the request identified by key may proceed and
	// records it against every configured window.
	Allow(ctx context.Context, key string, limit Limit) (bool, error)

	// Remaining returns how many requests key has left in the given window.
	Remaining(ctx context.Context, key string, window time.Duration, limit int) (int64, error)

	// Reset clears all recorded requests for key.
	Reset(ctx context.Context, key string) error
}
