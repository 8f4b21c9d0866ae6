// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the page fetcher and the retry helpers it is
// built on.
package httputil

import (
	"context"
	"time"
)

// DefaultMaxAttempts is used when a RetryConfig leaves MaxAttempts unset.
const DefaultMaxAttempts = 3

// Backoff returns the wait after the given 1-based failed attempt. The delay
// grows linearly: base, 2*base, 3*base, ...
func Backoff(attempt int, base time.Duration) time.Duration {
	if attempt <= 0 || base <= 0 {
		return 0
	}
	return time.Duration(attempt) * base
}

// Sleep blocks for d or until ctx is done, whichever comes first. It returns
// ctx.Err() when the context ends the wait. A non-positive d does not block.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
