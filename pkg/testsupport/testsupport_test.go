package testsupport

import (
	"context"
	"testing"

	"github.com/goliatone/go-txcache/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile(t *testing.T) {
	p := LoadProfile(t, "profile.json")
	require.NotNil(t, p.Username)
	assert.Equal(t, "alice", *p.Username)
	require.NotNil(t, p.IsPremium)
	assert.True(t, *p.IsPremium)
}

func TestSeedUsers(t *testing.T) {
	ctx := context.Background()
	db := NewSQLiteDB(t)

	seeds := SeedUsers(t, db, "users.json")
	require.Len(t, seeds, 3)

	row, err := store.FindByAccount(ctx, db, 101)
	require.NoError(t, err)
	assert.Equal(t, "ru", *row.Language)
	assert.Equal(t, "start", *row.AddedBy)

	row, err = store.FindByAccount(ctx, db, 102)
	require.NoError(t, err)
	assert.False(t, row.HasLanguage())
}

func TestNewSQLiteDB_Isolated(t *testing.T) {
	ctx := context.Background()
	a := NewSQLiteDB(t)
	b := NewSQLiteDB(t)

	_, err := store.Upsert(ctx, a, store.UpsertInput{AccountID: 1})
	require.NoError(t, err)

	_, err = store.FindByAccount(ctx, b, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestQueryCounter(t *testing.T) {
	ctx := context.Background()
	db := NewSQLiteDB(t)
	counter := NewQueryCounter(db)

	_, _ = store.FindByAccount(ctx, db, 7)
	_, _ = store.FindByAccount(ctx, db, 8)
	assert.Equal(t, 2, counter.Count("select"))

	counter.Reset()
	assert.Zero(t, counter.Count("SELECT"))
}

func TestCountingBeginner(t *testing.T) {
	ctx := context.Background()
	b := NewCountingBeginner(store.NewBeginner(NewSQLiteDB(t), nil))

	tx, err := b.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, 1, b.Begins())
	assert.Equal(t, 1, b.Rollbacks())
	assert.Zero(t, b.Commits())
}

func TestFailingCache(t *testing.T) {
	c := &FailingCache{}
	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrCacheDown)
	assert.Equal(t, 1, c.Gets())
}
