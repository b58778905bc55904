package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"parliament-interests/internal/config"
	"parliament-interests/pkg/logger"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	slowQueryThreshold     = 500 * time.Millisecond
)

// Store is an opened database plus what was known about it before opening.
type Store struct {
	DB *gorm.DB
	// Fresh reports that the backing store did not exist before Open. Only
	// the sqlite driver can tell; postgres always reports false.
	Fresh bool
}

func Open(cfg config.DBConfig, log logger.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		gormDB, err := NewPostgres(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{DB: gormDB}, nil
	case config.DriverSQLite, "":
		return NewSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig(cfg config.DBConfig, log logger.Logger) *gorm.Config {
	level := gormlogger.Warn
	if cfg.LogQueries {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// gormWriter routes gorm's printf-style output into the structured logger.
type gormWriter struct {
	log logger.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Debug("db: "+fmt.Sprintf(format, args...), "component", "gorm")
}

func applyPool(gormDB *gorm.DB, cfg config.DBConfig, maxOpenOverride int) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	if maxOpenOverride > 0 {
		maxOpen = maxOpenOverride
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = defaultConnMaxLifetime
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}
