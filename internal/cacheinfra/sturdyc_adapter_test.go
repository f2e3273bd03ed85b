package cacheinfra

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMemoryConfig(t *testing.T) {
	cfg := DefaultMemoryConfig()

	assert.Equal(t, 10000, cfg.Capacity)
	assert.Equal(t, 64, cfg.NumShards)
	assert.Equal(t, 7*24*time.Hour, cfg.TTL)
	assert.Equal(t, 10, cfg.EvictionPercentage)
	assert.NoError(t, cfg.Validate())
}

func TestMemoryConfig_Validate(t *testing.T) {
	base := DefaultMemoryConfig()
	tests := []struct {
		name      string
		mutate    func(*MemoryConfig)
		wantField string
	}{
		{name: "valid", mutate: func(*MemoryConfig) {}},
		{name: "zero capacity", mutate: func(c *MemoryConfig) { c.Capacity = 0 }, wantField: "Capacity"},
		{name: "negative shards", mutate: func(c *MemoryConfig) { c.NumShards = -1 }, wantField: "NumShards"},
		{name: "zero ttl", mutate: func(c *MemoryConfig) { c.TTL = 0 }, wantField: "TTL"},
		{name: "eviction above 100", mutate: func(c *MemoryConfig) { c.EvictionPercentage = 101 }, wantField: "EvictionPercentage"},
		{name: "negative interval", mutate: func(c *MemoryConfig) { c.EvictionInterval = -time.Second }, wantField: "EvictionInterval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestSturdycService_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSturdycService(DefaultMemoryConfig())
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user:1:lang")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, svc.Set(ctx, "user:1:lang", "uz", time.Hour))
	val, err := svc.Get(ctx, "user:1:lang")
	require.NoError(t, err)
	assert.Equal(t, "uz", val)
	assert.Equal(t, 1, svc.Size())

	require.NoError(t, svc.Delete(ctx, "user:1:lang"))
	_, err = svc.Get(ctx, "user:1:lang")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, svc.Ping(ctx))
	assert.NoError(t, svc.Close())
}

func TestSturdycService_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSturdycService(DefaultMemoryConfig())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Set(ctx, "user:7:lang", "en", time.Hour)
			_, _ = svc.Get(ctx, "user:7:lang")
		}()
	}
	wg.Wait()

	val, err := svc.Get(ctx, "user:7:lang")
	require.NoError(t, err)
	assert.Equal(t, "en", val)
}

func TestNewSturdycService_InvalidConfig(t *testing.T) {
	_, err := NewSturdycService(MemoryConfig{})
	assert.Error(t, err)
}
