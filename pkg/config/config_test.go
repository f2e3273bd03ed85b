package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-txcache/cache"
	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/goliatone/go-txcache/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, store.DriverPGX, cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Database.PoolMax)
	assert.Equal(t, cache.DriverRedis, cfg.Cache.Driver)
	assert.Equal(t, cache.DefaultTTL, cfg.Cache.TTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "postgres://postgres@localhost:5432/langbot?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("DATABASE_URL", "postgres://bot:secret@db:6432/prod")
	t.Setenv("DB_POOL_MIN", "2")
	t.Setenv("DB_POOL_MAX", "8")
	t.Setenv("USE_PGBOUNCER", "true")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("REDIS_URL", "cache:6379")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "postgres://bot:secret@db:6432/prod", cfg.Database.DSN())
	assert.True(t, cfg.Database.UsePgBouncer)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "redis://cache:6379", cfg.Cache.RedisURL)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)

	sc := cfg.StoreConfig()
	assert.Equal(t, 2, sc.PoolMin)
	assert.Equal(t, 8, sc.PoolMax)
	assert.True(t, sc.UsePgBouncer)

	lc := cfg.LoggerConfig()
	assert.Equal(t, logger.DebugLevel, lc.Level)
	assert.True(t, lc.JSON)

	cc := cfg.CacheServiceConfig()
	assert.Equal(t, "redis://cache:6379", cc.RedisURL)
	assert.Equal(t, time.Hour, cc.TTL)
	assert.NoError(t, cc.Validate())

	assert.Equal(t, ":9090", cfg.ServerConfig().Addr)
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=sqlite3\nDB_NAME=bot.db\nCACHE_DRIVER=memory\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("CACHE_DRIVER")
	})

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, store.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "bot.db", cfg.Database.DSN())
	assert.Equal(t, cache.DriverMemory, cfg.Cache.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"log level":    {"LOG_LEVEL": "loud"},
		"db driver":    {"DB_DRIVER": "oracle"},
		"pool bounds":  {"DB_POOL_MIN": "30", "DB_POOL_MAX": "10"},
		"cache driver": {"CACHE_DRIVER": "memcached"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Driver: store.DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p@ss", Name: "app"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/app", d.DSN())
}

func TestNormalizeRedisURL(t *testing.T) {
	assert.Equal(t, "redis://h:6379", NormalizeRedisURL("h:6379"))
	assert.Equal(t, "rediss://h:6380", NormalizeRedisURL("rediss://h:6380"))
	assert.Equal(t, "", NormalizeRedisURL("  "))
}

func TestEnvMappings(t *testing.T) {
	m := envMappings()
	assert.Equal(t, "database.url", m["DATABASE_URL"])
	assert.Equal(t, "cache.redis_url", m["REDIS_URL"])
	assert.Equal(t, "log.level", m["LOG_LEVEL"])
	assert.NotContains(t, m, "HOME")
}
