package cache

import (
	"context"
	"time"
)

// Cache là contract của cache layer (Redis ở production, fake in-memory trong test)
type Cache interface {
	// Get unmarshal data vào dest.
	// found = false: cache miss, dest giữ nguyên
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error

	// DeletePattern xóa mọi key match glob pattern, vd "category:tree:*"
	DeletePattern(ctx context.Context, pattern string) error

	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
