// Package cache provides the projection cache used by the FAQ manager.
package cache

import (
	"context"
	"time"
)

// Cache is a key to serialized-value store with expiry.
// Get reports a miss as (nil, false, nil); errors mean the backend failed.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
