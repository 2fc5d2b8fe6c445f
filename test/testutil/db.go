package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/simcheck/simcheck/internal/repo"
)

// OpenTestDB opens a throwaway sqlite database under the test's temp dir
// with all migrations applied.
func OpenTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	db, err := repo.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := repo.ApplyMigrations(db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db, func() {
		_ = db.Close()
	}
}
