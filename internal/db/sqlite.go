package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"parliament-interests/internal/config"
	"parliament-interests/pkg/logger"
)

const sqliteParams = "?_busy_timeout=5000&_journal_mode=WAL"

// NewSQLite opens (creating if needed) the database file at cfg.SQLitePath.
// A single connection serializes writers so the ingest run never sees
// "database is locked".
func NewSQLite(cfg config.DBConfig, log logger.Logger) (*Store, error) {
	path := cfg.SQLitePath
	fresh, err := prepareSQLitePath(path)
	if err != nil {
		return nil, err
	}

	log.Info("db: opening sqlite", "path", path, "fresh", fresh)

	gormDB, err := gorm.Open(sqlite.Open(path+sqliteParams), gormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := applyPool(gormDB, cfg, 1); err != nil {
		return nil, err
	}

	log.Info("db: connected", "driver", config.DriverSQLite)
	return &Store{DB: gormDB, Fresh: fresh}, nil
}

func prepareSQLitePath(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create db dir: %w", err)
		}
	}
	return true, nil
}
