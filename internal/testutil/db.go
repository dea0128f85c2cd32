// Package testutil holds helpers shared by package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"wikiref/internal/database"
)

// OpenDB returns a migrated sqlite database in a temporary directory. It is
// closed when the test finishes.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "wikiref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Exec runs a statement and returns the last insert id.
func Exec(t testing.TB, db *sql.DB, query string, args ...any) int {
	t.Helper()

	res, err := db.Exec(query, args...)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}
