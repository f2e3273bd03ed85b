package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-txcache/cache"
	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/goliatone/go-txcache/store"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load reads the configuration. Dotenv files are applied first and never
// override variables already set in the environment; missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	mappings := envMappings()
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			path, ok := mappings[key]
			if !ok {
				return "", nil
			}
			return path, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Cache.RedisURL = NormalizeRedisURL(cfg.Cache.RedisURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.In(
			string(logger.DebugLevel), string(logger.InfoLevel),
			string(logger.WarnLevel), string(logger.ErrorLevel),
		)),
	); err != nil {
		return fmt.Errorf("config: log: %w", err)
	}

	db := &c.Database
	if err := validation.ValidateStruct(db,
		validation.Field(&db.Driver, validation.Required,
			validation.In(store.DriverPGX, store.DriverPostgres, store.DriverSQLite)),
		validation.Field(&db.Name, validation.When(db.URL == "", validation.Required)),
		validation.Field(&db.Host, validation.When(db.URL == "" && db.Driver != store.DriverSQLite, validation.Required)),
		validation.Field(&db.PoolMin, validation.Min(0)),
		validation.Field(&db.PoolMax, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("config: database: %w", err)
	}
	if db.PoolMin > db.PoolMax {
		return fmt.Errorf("config: database: pool_min %d exceeds pool_max %d", db.PoolMin, db.PoolMax)
	}

	cc := &c.Cache
	if err := validation.ValidateStruct(cc,
		validation.Field(&cc.Driver, validation.Required, validation.In(cache.DriverRedis, cache.DriverMemory)),
		validation.Field(&cc.RedisURL, validation.When(cc.Driver == cache.DriverRedis, validation.Required)),
	); err != nil {
		return fmt.Errorf("config: cache: %w", err)
	}

	if err := validation.Validate(c.HTTP.Addr, validation.Required); err != nil {
		return fmt.Errorf("config: http addr: %w", err)
	}
	return nil
}

// envMappings maps environment variable names to koanf paths using the env
// struct tags.
func envMappings() map[string]string {
	out := make(map[string]string)
	collectEnv(reflect.TypeOf(Config{}), "", out)
	return out
}

func collectEnv(t reflect.Type, prefix string, out map[string]string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("koanf")
		if !field.IsExported() || tag == "" || tag == "-" {
			continue
		}
		path := tag
		if prefix != "" {
			path = prefix + "." + tag
		}
		if name := strings.TrimSpace(field.Tag.Get("env")); name != "" {
			out[name] = path
		}
		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			collectEnv(field.Type, path, out)
		}
	}
}
