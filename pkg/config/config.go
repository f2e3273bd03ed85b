// Package config loads the process configuration from defaults, optional
// dotenv files and the environment.
package config

import (
	"time"

	"github.com/goliatone/go-txcache/cache"
	"github.com/goliatone/go-txcache/internal/server"
	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/goliatone/go-txcache/store"
)

// Config is the root configuration.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	HTTP     HTTPConfig     `koanf:"http"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `koanf:"level" env:"LOG_LEVEL"`
	JSON  bool   `koanf:"json"  env:"LOG_JSON"`
}

// DatabaseConfig configures the relational store. URL wins over the discrete
// connection fields.
type DatabaseConfig struct {
	URL             string        `koanf:"url"               env:"DATABASE_URL"`
	Driver          string        `koanf:"driver"            env:"DB_DRIVER"`
	Host            string        `koanf:"host"              env:"DB_HOST"`
	Port            string        `koanf:"port"              env:"DB_PORT"`
	User            string        `koanf:"user"              env:"DB_USER"`
	Password        string        `koanf:"password"          env:"DB_PASSWORD"`
	Name            string        `koanf:"name"              env:"DB_NAME"`
	SSLMode         string        `koanf:"ssl_mode"          env:"DB_SSLMODE"`
	PoolMin         int           `koanf:"pool_min"          env:"DB_POOL_MIN"`
	PoolMax         int           `koanf:"pool_max"          env:"DB_POOL_MAX"`
	UsePgBouncer    bool          `koanf:"use_pgbouncer"     env:"USE_PGBOUNCER"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	LogQueries      bool          `koanf:"log_queries"       env:"DB_LOG_QUERIES"`
}

// CacheConfig configures the language cache.
type CacheConfig struct {
	Driver   string        `koanf:"driver"    env:"CACHE_DRIVER"`
	RedisURL string        `koanf:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `koanf:"ttl"       env:"CACHE_TTL"`
	PoolSize int           `koanf:"pool_size" env:"REDIS_POOL_SIZE"`
	Capacity int           `koanf:"capacity"  env:"CACHE_CAPACITY"`
}

// HTTPConfig configures the webhook listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"             env:"HTTP_ADDR"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in defaults.
func Default() *Config {
	cacheDefaults := cache.DefaultConfig()
	return &Config{
		Log: LogConfig{Level: string(logger.InfoLevel)},
		Database: DatabaseConfig{
			Driver:  store.DriverPGX,
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "langbot",
			SSLMode: "disable",
			PoolMin: 5,
			PoolMax: 20,
		},
		Cache: CacheConfig{
			Driver:   cache.DriverRedis,
			RedisURL: "redis://localhost:6379/0",
			TTL:      cache.DefaultTTL,
			PoolSize: cacheDefaults.PoolSize,
			Capacity: cacheDefaults.Capacity,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// LoggerConfig converts the log section.
func (c *Config) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(c.Log.Level)
	cfg.JSON = c.Log.JSON
	return cfg
}

// StoreConfig converts the database section.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver:          c.Database.Driver,
		DSN:             c.Database.DSN(),
		PoolMin:         c.Database.PoolMin,
		PoolMax:         c.Database.PoolMax,
		UsePgBouncer:    c.Database.UsePgBouncer,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		LogQueries:      c.Database.LogQueries,
	}
}

// CacheServiceConfig converts the cache section.
func (c *Config) CacheServiceConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Driver = c.Cache.Driver
	cfg.RedisURL = c.Cache.RedisURL
	cfg.TTL = c.Cache.TTL
	if c.Cache.PoolSize > 0 {
		cfg.PoolSize = c.Cache.PoolSize
	}
	if c.Cache.Capacity > 0 {
		cfg.Capacity = c.Cache.Capacity
	}
	return cfg
}

// ServerConfig converts the HTTP section.
func (c *Config) ServerConfig() server.Config {
	return server.Config{Addr: c.HTTP.Addr, ShutdownTimeout: c.HTTP.ShutdownTimeout}
}
