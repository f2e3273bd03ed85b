package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	root := RootCmd()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestMigrateCmd_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bot.db")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", dbPath)
	t.Setenv("CACHE_DRIVER", "memory")

	root := RootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "--env-file", filepath.Join(t.TempDir(), "none.env")})
	require.NoError(t, root.Execute())
}
