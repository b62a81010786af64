package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/tarmuz-dev/tarmuz/db"
)

// NewDB returns a migrated sqlite database in a temp dir, closed at cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.ConnectDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}

	if err := db.MigrateDatabase(conn); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return conn
}
