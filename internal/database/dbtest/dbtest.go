// Package dbtest opens throwaway SQLite stores with the production schema
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/xelth-com/storesync/internal/config"
	"github.com/xelth-com/storesync/internal/database"
)

// Open creates a migrated SQLite database in the test's temp dir and closes it on cleanup
func Open(t testing.TB) *database.DB {
	t.Helper()
	return OpenFile(t, filepath.Join(t.TempDir(), "store.db"))
}

// OpenFile opens and migrates the SQLite database at path. Each call returns its
// own connection, so two handles on one path behave like two server processes.
func OpenFile(t testing.TB, path string) *database.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: path,
		Silent:     true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
