package cache

import (
	"context"
	"time"
)

// Cache - байтовый кеш с TTL. Реализации: memory и redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
