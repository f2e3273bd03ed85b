package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/uptrace/bun"
)

// LoggingHook logs every statement at debug level, and failures at warn.
type LoggingHook struct{}

var _ bun.QueryHook = (*LoggingHook)(nil)

// NewLoggingHook returns a query hook that logs through the context logger.
func NewLoggingHook() *LoggingHook {
	return &LoggingHook{}
}

func (h *LoggingHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *LoggingHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	log := logger.FromContext(ctx)
	elapsed := time.Since(event.StartTime)
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		log.Warn("store: query failed", "operation", event.Operation(), "elapsed", elapsed, "error", event.Err)
		return
	}
	log.Debug("store: query", "operation", event.Operation(), "elapsed", elapsed, "query", event.Query)
}
