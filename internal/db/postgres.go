package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"parliament-interests/internal/config"
	"parliament-interests/pkg/logger"
)

func NewPostgres(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	if cfg.DSN != "" {
		log.Info("db: connecting using DSN")
	} else {
		log.Info("db: connecting to postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), gormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := applyPool(gormDB, cfg, 0); err != nil {
		return nil, err
	}

	log.Info("db: connected", "driver", config.DriverPostgres)
	return gormDB, nil
}
