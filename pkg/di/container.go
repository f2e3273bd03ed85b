package di

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-txcache/bot"
	"github.com/goliatone/go-txcache/cache"
	"github.com/goliatone/go-txcache/internal/metrics"
	"github.com/goliatone/go-txcache/internal/server"
	"github.com/goliatone/go-txcache/langrepo"
	"github.com/goliatone/go-txcache/pipeline"
	"github.com/goliatone/go-txcache/pkg/config"
	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/goliatone/go-txcache/store"
	"github.com/goliatone/go-txcache/txscope"
	"github.com/uptrace/bun"
)

// Container owns the process-wide resources: the store pool and the cache
// client are created once and shared by every request. Close releases them.
type Container struct {
	db           *bun.DB
	cacheService cache.CacheService
	metrics      *metrics.Metrics
	scope        *txscope.Scope
	repo         *langrepo.Repository
	handler      pipeline.Handler

	closeOnce sync.Once
	closeErr  error
}

// NewContainer opens the store and the cache described by cfg and wires the
// request pipeline on top of them.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	db, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return nil, err
	}

	cacheService, err := cache.NewCacheService(ctx, cfg.CacheServiceConfig())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("di: cache: %w", err)
	}

	return New(db, cacheService, langrepo.WithTTL(cfg.Cache.TTL)), nil
}

// New wires a container around an open store and cache. The container takes
// ownership of both.
func New(db *bun.DB, cacheService cache.CacheService, repoOpts ...langrepo.Option) *Container {
	m := metrics.New()
	scope := txscope.New(store.NewBeginner(db, nil), txscope.WithObserver(m))
	repo := langrepo.New(cacheService, append([]langrepo.Option{langrepo.WithObserver(m)}, repoOpts...)...)

	router := pipeline.NewRouter()
	bot.New(repo, nil).Register(router)

	return &Container{
		db:           db,
		cacheService: cacheService,
		metrics:      m,
		scope:        scope,
		repo:         repo,
		handler: pipeline.Chain(router,
			pipeline.RequestID(),
			pipeline.Instrument(m),
			pipeline.Transaction(scope),
		),
	}
}

// DB returns the shared store pool.
func (c *Container) DB() *bun.DB {
	return c.db
}

// CacheService returns the shared cache client.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// Metrics returns the Prometheus collectors.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Scope returns the transaction scope.
func (c *Container) Scope() *txscope.Scope {
	return c.scope
}

// Repository returns the language repository.
func (c *Container) Repository() *langrepo.Repository {
	return c.repo
}

// Handler returns the full update pipeline.
func (c *Container) Handler() pipeline.Handler {
	return c.handler
}

// Server builds the HTTP transport with metrics and health checks attached.
func (c *Container) Server(cfg server.Config) *server.Server {
	return server.New(cfg, c.handler,
		server.WithMetricsHandler(c.metrics.Handler()),
		server.WithHealthCheck("store", c.db.PingContext),
		server.WithHealthCheck("cache", c.cacheService.Ping),
	)
}

// Migrate creates the schema.
func (c *Container) Migrate(ctx context.Context) error {
	return store.CreateSchema(ctx, c.db)
}

// Close shuts the cache client and the store pool down. It is safe to call more
// than once.
func (c *Container) Close() error {
	c.closeOnce.Do(func() {
		var errs []error
		if err := c.cacheService.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		c.closeErr = errors.Join(errs...)
		logger.GetDefault().Info("Container closed")
	})
	return c.closeErr
}
