package repository

import (
	"context"
	"time"
)

// CacheRepository is the shared time-bounded result cache for weather and
// elevation lookups. Get returns (nil, nil) on a miss. Values are idempotent
// functions of their key, so concurrent last-writer-wins races are fine.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
