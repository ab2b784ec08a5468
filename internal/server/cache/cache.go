// Package cache defines the invalidation port the bootstrap path calls after
// its insert commits.
package cache

import "context"

// Invalidator clears the shared read cache. Bootstrap invokes Clear strictly
// after the account insert commits, never before, so other readers cannot
// observe a fresh cache entry paired with a stale "store empty" state.
type Invalidator interface {
	Clear(ctx context.Context) error
}

// Noop is used when no shared cache is deployed.
type Noop struct{}

func (Noop) Clear(context.Context) error { return nil }
