package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-txcache/store"
	"github.com/uptrace/bun"
)

// SeedUser is one users row as stored in a JSON fixture.
type SeedUser struct {
	AccountID   int64   `json:"account_id"`
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
	IsPremium   *bool   `json:"is_premium"`
	Language    *string `json:"language"`
	AddedBy     *string `json:"added_by"`
}

// Profile returns the refreshable profile columns of the seed.
func (s SeedUser) Profile() store.Profile {
	return store.Profile{Username: s.Username, DisplayName: s.DisplayName, IsPremium: s.IsPremium}
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// FixturePath resolves filename inside this package's testdata directory, so
// tests in any package can share the same fixtures.
func FixturePath(filename string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testdata", filename)
	}
	return filepath.Join(filepath.Dir(file), "testdata", filename)
}

// LoadProfile reads a store.Profile from a JSON fixture.
func LoadProfile(t testing.TB, filename string) store.Profile {
	t.Helper()

	var seed SeedUser
	LoadFixtureJSON(t, FixturePath(filename), &seed)
	return seed.Profile()
}

// SeedUsers upserts every row of the JSON fixture into db and returns them.
func SeedUsers(t testing.TB, db bun.IDB, filename string) []SeedUser {
	t.Helper()

	var seeds []SeedUser
	LoadFixtureJSON(t, FixturePath(filename), &seeds)

	ctx := context.Background()
	for _, s := range seeds {
		_, err := store.Upsert(ctx, db, store.UpsertInput{
			AccountID: s.AccountID,
			Profile:   s.Profile(),
			Language:  s.Language,
			AddedBy:   s.AddedBy,
		})
		if err != nil {
			t.Fatalf("failed to seed account %d: %v", s.AccountID, err)
		}
	}
	return seeds
}
