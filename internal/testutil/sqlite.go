// Package testutil opens throwaway stores for repository and end-to-end tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"parliament-interests/internal/config"
	"parliament-interests/internal/db"
	"parliament-interests/pkg/logger"
)

// SQLite returns a migrated sqlite store under t.TempDir, closed on cleanup.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()

	store, err := db.Open(config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "members.db"),
	}, logger.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := db.EnsureSchema(context.Background(), store.DB); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store.DB
}

func Ptr[T any](v T) *T {
	return &v
}
