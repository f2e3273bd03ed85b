// Package cache provides the key-value cache contract and key format used in
// front of the language preference store.
//
// # Overview
//
// This package exports two interfaces and their default implementations:
//
//   - CacheService: Get/Set/Delete with TTL against a shared cache
//   - KeySerializer: builds the "user:{accountID}:lang" key
//
// Two drivers are available through NewCacheService:
//
//   - redis: go-redis client, shared by every process of the bot
//   - memory: in-process sturdyc cache, for single instance setups and local runs
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(ctx, cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	key := cache.NewLanguageKeySerializer().SerializeKey(42) // "user:42:lang"
//	lang, err := svc.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// load from the store
//	}
//
// # Error Handling
//
// Get reports an absent key with ErrCacheMiss. Any other failure is a *CacheError.
// The cache is best-effort: the repository layer logs these errors and carries on
// against the store, it never fails a request because the cache is unreachable.
//
// # Lifecycle
//
// A CacheService is constructed once per process, shared by every repository and
// closed on shutdown. See the di package for the wiring.
package cache
