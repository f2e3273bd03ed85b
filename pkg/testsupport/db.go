package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-txcache/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewSQLiteDB opens a private in-memory SQLite database with the users table
// created. The pool holds a single connection, so statements on the returned
// DB block while a transaction is open.
func NewSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()

	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := store.Open(ctx, store.Config{Driver: store.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, store.CreateSchema(ctx, db))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// QueryCounter is a bun.QueryHook that counts statements by their leading
// keyword, e.g. SELECT, INSERT, BEGIN.
type QueryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

var _ bun.QueryHook = (*QueryCounter)(nil)

// NewQueryCounter installs a counter on db.
func NewQueryCounter(db *bun.DB) *QueryCounter {
	c := &QueryCounter{counts: make(map[string]int)}
	db.AddQueryHook(c)
	return c
}

func (c *QueryCounter) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (c *QueryCounter) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	fields := strings.Fields(event.Query)
	if len(fields) == 0 {
		return
	}
	c.mu.Lock()
	c.counts[strings.ToUpper(fields[0])]++
	c.mu.Unlock()
}

// Count returns how many statements started with op.
func (c *QueryCounter) Count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[strings.ToUpper(op)]
}

// Reset clears all counters.
func (c *QueryCounter) Reset() {
	c.mu.Lock()
	c.counts = make(map[string]int)
	c.mu.Unlock()
}
