package cacheinfra

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// MemoryConfig holds the configuration for the in-process sturdyc adapter.
type MemoryConfig struct {
	// Capacity defines the maximum number of entries that the cache can store.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	NumShards int

	// TTL applies to every entry. sturdyc has no per-key expiry, so the ttl
	// passed to Set is ignored in favour of this value.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultMemoryConfig returns a MemoryConfig sized for a single bot process.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		TTL:                7 * 24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c MemoryConfig) Validate() error {
	checks := []struct {
		field string
		err   error
		msg   string
	}{
		{"Capacity", validation.Validate(c.Capacity, validation.Required, validation.Min(1)), "must be greater than 0"},
		{"NumShards", validation.Validate(c.NumShards, validation.Required, validation.Min(1)), "must be greater than 0"},
		{"TTL", validation.Validate(c.TTL, validation.Required, validation.Min(time.Nanosecond)), "must be greater than 0"},
		{"EvictionPercentage", validation.Validate(c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)), "must be between 1 and 100"},
		{"EvictionInterval", validation.Validate(c.EvictionInterval, validation.Min(time.Duration(0))), "must be non-negative"},
	}
	for _, check := range checks {
		if check.err != nil {
			return &ConfigError{Field: check.field, Message: check.msg}
		}
	}
	return nil
}

func (c MemoryConfig) sturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// SturdycService is an in-process CacheService for single-instance deployments
// and local development.
type SturdycService struct {
	client *sturdyc.Client[string]
}

// NewSturdycService validates cfg and builds the sturdyc client.
func NewSturdycService(cfg MemoryConfig) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[string](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.sturdycOptions()...,
	)
	return &SturdycService{client: client}, nil
}

// Get returns the value under key, or ErrCacheMiss.
func (s *SturdycService) Get(_ context.Context, key string) (string, error) {
	v, ok := s.client.Get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

// Set stores value under key. The client-wide TTL applies.
func (s *SturdycService) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.client.Set(key, value)
	return nil
}

// Delete removes key.
func (s *SturdycService) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Ping always succeeds for the in-process cache.
func (s *SturdycService) Ping(context.Context) error {
	return nil
}

// Close is a no-op; the client holds no external resources.
func (s *SturdycService) Close() error {
	return nil
}

// Size reports the number of stored entries.
func (s *SturdycService) Size() int {
	return s.client.Size()
}
