package store_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-txcache/pkg/testsupport"
	"github.com/goliatone/go-txcache/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFindByAccount_NotFound(t *testing.T) {
	db := testsupport.NewSQLiteDB(t)

	row, err := store.FindByAccount(context.Background(), db, 404)
	assert.Nil(t, row)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsert_InsertsRow(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewSQLiteDB(t)

	id, err := store.Upsert(ctx, db, store.UpsertInput{
		AccountID: 42,
		Profile: store.Profile{
			Username:    ptr("alice"),
			DisplayName: ptr("Alice"),
			IsPremium:   ptr(true),
		},
		Language: ptr("en"),
		AddedBy:  ptr("start"),
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	row, err := store.FindByAccount(ctx, db, 42)
	require.NoError(t, err)
	assert.Equal(t, id, row.ID)
	assert.Equal(t, "alice", *row.Username)
	assert.Equal(t, "Alice", *row.DisplayName)
	assert.True(t, *row.IsPremium)
	assert.True(t, row.HasLanguage())
	assert.Equal(t, "en", *row.Language)
	assert.Equal(t, "start", *row.AddedBy)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestUpsert_OverwritesOnlySuppliedColumns(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewSQLiteDB(t)

	firstID, err := store.Upsert(ctx, db, store.UpsertInput{
		AccountID: 7,
		Profile:   store.Profile{Username: ptr("bob"), DisplayName: ptr("Bob")},
		Language:  ptr("uz"),
		AddedBy:   ptr("start"),
	})
	require.NoError(t, err)

	// Profile refresh without a language keeps the chosen one.
	secondID, err := store.Upsert(ctx, db, store.UpsertInput{
		AccountID: 7,
		Profile:   store.Profile{Username: ptr("bobby")},
		AddedBy:   ptr("other"),
	})
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	row, err := store.FindByAccount(ctx, db, 7)
	require.NoError(t, err)
	assert.Equal(t, "bobby", *row.Username)
	assert.Equal(t, "Bob", *row.DisplayName)
	assert.Equal(t, "uz", *row.Language)
	assert.Equal(t, "start", *row.AddedBy, "provenance is recorded on insert only")

	_, err = store.Upsert(ctx, db, store.UpsertInput{AccountID: 7, Language: ptr("ru")})
	require.NoError(t, err)

	row, err = store.FindByAccount(ctx, db, 7)
	require.NoError(t, err)
	assert.Equal(t, "ru", *row.Language)
	assert.Equal(t, "bobby", *row.Username)
}

func TestUpsert_NothingSuppliedReturnsExistingID(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewSQLiteDB(t)

	id, err := store.Upsert(ctx, db, store.UpsertInput{AccountID: 9})
	require.NoError(t, err)

	again, err := store.Upsert(ctx, db, store.UpsertInput{AccountID: 9})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	row, err := store.FindByAccount(ctx, db, 9)
	require.NoError(t, err)
	assert.False(t, row.HasLanguage())
}

func TestHasLanguage(t *testing.T) {
	var nilRow *store.UserPreference
	assert.False(t, nilRow.HasLanguage())
	assert.False(t, (&store.UserPreference{}).HasLanguage())
	assert.False(t, (&store.UserPreference{Language: ptr("")}).HasLanguage())
	assert.True(t, (&store.UserPreference{Language: ptr("en")}).HasLanguage())
}
