package testsupport

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goliatone/go-txcache/cache"
	"github.com/stretchr/testify/require"
)

// ErrCacheDown is returned by every FailingCache call.
var ErrCacheDown = errors.New("cache unavailable")

// NewMiniredisCache starts an in-process Redis server and returns a cache
// service connected to it.
func NewMiniredisCache(t testing.TB) (cache.CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := cache.DefaultConfig()
	cfg.RedisURL = "redis://" + mr.Addr()
	svc, err := cache.NewCacheService(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}

// FailingCache is a cache.CacheService whose every call fails.
type FailingCache struct {
	gets atomic.Int32
	sets atomic.Int32
}

var _ cache.CacheService = (*FailingCache)(nil)

func (c *FailingCache) Get(context.Context, string) (string, error) {
	c.gets.Add(1)
	return "", ErrCacheDown
}

func (c *FailingCache) Set(context.Context, string, string, time.Duration) error {
	c.sets.Add(1)
	return ErrCacheDown
}

func (c *FailingCache) Delete(context.Context, string) error { return ErrCacheDown }
func (c *FailingCache) Ping(context.Context) error           { return ErrCacheDown }
func (c *FailingCache) Close() error                         { return nil }

// Gets returns the number of Get calls.
func (c *FailingCache) Gets() int { return int(c.gets.Load()) }

// Sets returns the number of Set calls.
func (c *FailingCache) Sets() int { return int(c.sets.Load()) }
