// Package storagetest opens migrated SQLite databases for tests.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"jrotc/internal/adapters/storage"
)

// Open returns a migrated database in a temp file that is removed when the test ends.
// PRE: t is a running test
// POST: every migration has been applied
func Open(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init test db: %v", err)
	}
	return db
}
