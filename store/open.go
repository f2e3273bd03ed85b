package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverPGX      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	defaultPoolMax     = 20
	defaultPoolMin     = 5
	defaultPingTimeout = 3 * time.Second
)

// Config holds the connection settings for Open.
type Config struct {
	Driver          string
	DSN             string
	PoolMin         int
	PoolMax         int
	UsePgBouncer    bool
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
	// LogQueries installs a debug query hook.
	LogQueries bool
}

// Open connects to the database described by cfg, pings it and returns a bun.DB
// with the matching dialect.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	sqldb, err := openSQL(cfg)
	if err != nil {
		return nil, err
	}
	applyPoolSettings(sqldb, cfg)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("store: ping %s: %w", cfg.Driver, err)
	}

	var db *bun.DB
	if cfg.Driver == DriverSQLite {
		db = bun.NewDB(sqldb, sqlitedialect.New())
	} else {
		db = bun.NewDB(sqldb, pgdialect.New())
	}
	if cfg.LogQueries {
		db.AddQueryHook(NewLoggingHook())
	}

	logger.FromContext(ctx).Info("Store initialized",
		"store_driver", cfg.Driver,
		"pool_max", cfg.PoolMax,
		"pool_min", cfg.PoolMin,
		"pgbouncer", cfg.UsePgBouncer,
	)
	return db, nil
}

func openSQL(cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverPGX, "":
		if !cfg.UsePgBouncer {
			return sql.Open("pgx", cfg.DSN)
		}
		// PgBouncer in transaction mode cannot keep prepared statements across
		// transactions.
		connCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("store: parse dsn: %w", err)
		}
		connCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		return stdlib.OpenDB(*connCfg), nil
	case DriverPostgres:
		return sql.Open("postgres", cfg.DSN)
	case DriverSQLite:
		return sql.Open("sqlite3", cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func applyPoolSettings(sqldb *sql.DB, cfg Config) {
	if cfg.Driver == DriverSQLite && isMemoryDSN(cfg.DSN) {
		// Every connection to :memory: is a separate database.
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		sqldb.SetConnMaxLifetime(0)
		return
	}

	maxOpen := cfg.PoolMax
	if maxOpen <= 0 {
		maxOpen = defaultPoolMax
	}
	minIdle := cfg.PoolMin
	if minIdle <= 0 {
		minIdle = defaultPoolMin
	}
	if minIdle > maxOpen {
		minIdle = maxOpen
	}
	if cfg.UsePgBouncer {
		minIdle = 0
	}
	sqldb.SetMaxOpenConns(maxOpen)
	sqldb.SetMaxIdleConns(minIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
