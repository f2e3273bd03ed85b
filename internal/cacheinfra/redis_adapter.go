package cacheinfra

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const fallbackRedisPingTimeout = 5 * time.Second

// RedisConfig holds connection settings for the Redis adapter. URL takes
// precedence over the individual address fields.
type RedisConfig struct {
	URL          string
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingTimeout  time.Duration
	TLSEnabled   bool
}

// DefaultRedisConfig points at a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:         "localhost",
		Port:         "6379",
		PoolSize:     10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PingTimeout:  fallbackRedisPingTimeout,
	}
}

// Validate checks the configuration.
func (c RedisConfig) Validate() error {
	if c.URL == "" {
		if err := validation.Validate(c.Host, validation.Required); err != nil {
			return &ConfigError{Field: "Host", Message: "required when URL is empty"}
		}
		if err := validation.Validate(c.Port, validation.Required); err != nil {
			return &ConfigError{Field: "Port", Message: "required when URL is empty"}
		}
	}
	if err := validation.Validate(c.DB, validation.Min(0)); err != nil {
		return &ConfigError{Field: "DB", Message: "must be non-negative"}
	}
	if err := validation.Validate(c.PoolSize, validation.Min(0)); err != nil {
		return &ConfigError{Field: "PoolSize", Message: "must be non-negative"}
	}
	return nil
}

// RedisService is a CacheService backed by go-redis. It is safe for concurrent use.
type RedisService struct {
	client redis.UniversalClient
	once   sync.Once
}

// NewRedisService connects to Redis and verifies the connection with a ping.
func NewRedisService(ctx context.Context, cfg RedisConfig) (*RedisService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := buildRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = fallbackRedisPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging Redis server (timeout=%s): %w", timeout, err)
	}
	logger.FromContext(ctx).Info("Redis connection established",
		"cache_driver", "redis",
		"host", cfg.Host,
		"db", cfg.DB,
		"pool_size", cfg.PoolSize,
		"tls_enabled", cfg.TLSEnabled,
	)
	return &RedisService{client: client}, nil
}

// NewRedisServiceFromClient wraps an existing client without pinging it.
func NewRedisServiceFromClient(client redis.UniversalClient) *RedisService {
	return &RedisService{client: client}
}

func buildRedisClient(cfg RedisConfig) (redis.UniversalClient, error) {
	var opt *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing Redis URL: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.TLSEnabled && opt.TLSConfig == nil {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opt), nil
}

// Get returns the value under key, or ErrCacheMiss.
func (s *RedisService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", &CacheError{Op: "get", Key: key, Err: err}
	}
	return val, nil
}

// Set stores value under key with the given expiry.
func (s *RedisService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return &CacheError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Delete removes key.
func (s *RedisService) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return &CacheError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisService) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &CacheError{Op: "ping", Err: err}
	}
	return nil
}

// Close shuts the client down. It is safe to call more than once.
func (s *RedisService) Close() error {
	var err error
	s.once.Do(func() {
		err = s.client.Close()
	})
	return err
}
