package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/honganh1206/guideme/server/db"
)

func CreateTestDB(t *testing.T, schemas ...string) *sql.DB {
	t.Helper()

	testDBPath := filepath.Join(t.TempDir(), "test.db")

	sqlDB, err := db.OpenDB(db.DefaultConfig(testDBPath), schemas...)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return sqlDB
}
