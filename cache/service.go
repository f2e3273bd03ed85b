package cache

import (
	"context"
	"time"

	"github.com/goliatone/go-txcache/internal/cacheinfra"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent or expired.
var ErrCacheMiss = cacheinfra.ErrCacheMiss

// CacheError wraps a failure of the cache backend.
type CacheError = cacheinfra.CacheError

// CacheService is the key-value cache placed in front of the store. Every call is
// fallible; callers treat failures as non-fatal. Implementations must be safe for
// concurrent use and only offer atomic single-key operations.
type CacheService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// KeySerializer builds the cache key for an account's cached field.
type KeySerializer interface {
	SerializeKey(accountID int64) string
}
