package cache

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-txcache/internal/cacheinfra"
)

// Cache drivers.
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// DefaultTTL is the fixed lifetime of a cached language entry.
const DefaultTTL = 7 * 24 * time.Hour

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Driver string
	TTL    time.Duration

	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	PoolSize      int
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	PingTimeout   time.Duration
	TLSEnabled    bool

	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	redis := cacheinfra.DefaultRedisConfig()
	memory := cacheinfra.DefaultMemoryConfig()
	return Config{
		Driver:             DriverRedis,
		TTL:                DefaultTTL,
		RedisHost:          redis.Host,
		RedisPort:          redis.Port,
		PoolSize:           redis.PoolSize,
		DialTimeout:        redis.DialTimeout,
		ReadTimeout:        redis.ReadTimeout,
		WriteTimeout:       redis.WriteTimeout,
		PingTimeout:        redis.PingTimeout,
		Capacity:           memory.Capacity,
		NumShards:          memory.NumShards,
		EvictionPercentage: memory.EvictionPercentage,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if err := validation.Validate(c.Driver, validation.Required, validation.In(DriverRedis, DriverMemory)); err != nil {
		return &cacheinfra.ConfigError{Field: "Driver", Message: err.Error()}
	}
	if err := validation.Validate(c.TTL, validation.Required, validation.Min(time.Second)); err != nil {
		return &cacheinfra.ConfigError{Field: "TTL", Message: "must be at least one second"}
	}
	if c.Driver == DriverMemory {
		return c.memoryConfig().Validate()
	}
	return c.redisConfig().Validate()
}

// NewCacheService constructs the cache service selected by cfg.Driver. The
// Redis driver pings the server before returning.
func NewCacheService(ctx context.Context, cfg Config) (CacheService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverMemory:
		return cacheinfra.NewSturdycService(cfg.memoryConfig())
	case DriverRedis:
		return cacheinfra.NewRedisService(ctx, cfg.redisConfig())
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

func (c Config) redisConfig() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		URL:          c.RedisURL,
		Host:         c.RedisHost,
		Port:         c.RedisPort,
		Password:     c.RedisPassword,
		DB:           c.RedisDB,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PingTimeout:  c.PingTimeout,
		TLSEnabled:   c.TLSEnabled,
	}
}

func (c Config) memoryConfig() cacheinfra.MemoryConfig {
	return cacheinfra.MemoryConfig{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}
