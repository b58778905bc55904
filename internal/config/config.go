package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"parliament-interests/pkg/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	IngestAuto   = "auto"
	IngestAlways = "always"
	IngestNever  = "never"
)

type Config struct {
	HTTPPort     string `validate:"required,numeric"`
	Env          string
	FrontendHost string
	DB           DBConfig
	Upstream     UpstreamConfig
	Ingest       IngestConfig
	Search       SearchConfig
}

type DBConfig struct {
	Driver          string `validate:"oneof=sqlite postgres"`
	SQLitePath      string `validate:"required_if=Driver sqlite"`
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int `validate:"gte=0"`
	MaxIdleConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	LogQueries      bool
}

type UpstreamConfig struct {
	MembersBaseURL   string        `validate:"required,url"`
	InterestsBaseURL string        `validate:"required,url"`
	Timeout          time.Duration `validate:"gte=0"`
	// Upstream caps take at 20.
	PageSize         int           `validate:"gt=0,lte=20"`
}

type IngestConfig struct {
	OnStartup string `validate:"oneof=auto always never"`
	BatchSize int    `validate:"gt=0"`
}

type SearchConfig struct {
	DefaultTake int `validate:"gt=0"`
	MaxTake     int `validate:"gtefield=DefaultTake"`
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	env := getEnv("ENV", "development")
	cfg := Config{
		HTTPPort:     getEnv("HTTP_PORT", "8000"),
		Env:          env,
		FrontendHost: getEnv("FRONTEND_HOST", "http://localhost:8000"),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			SQLitePath:      getEnv("SQLITE_PATH", "data/members.db"),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "parliament_interests"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			LogQueries:      getEnvBool("DB_LOG_QUERIES", strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug")),
		},
		Upstream: UpstreamConfig{
			MembersBaseURL:   getEnv("MEMBERS_API_URL", "https://members-api.parliament.uk/api"),
			InterestsBaseURL: getEnv("INTERESTS_API_URL", "https://interests-api.parliament.uk/api/v1"),
			Timeout:          getEnvDuration("UPSTREAM_TIMEOUT", 0),
			PageSize:         getEnvInt("UPSTREAM_PAGE_SIZE", 20),
		},
		Ingest: IngestConfig{
			OnStartup: strings.ToLower(getEnv("INGEST_ON_STARTUP", IngestAuto)),
			BatchSize: getEnvInt("INGEST_BATCH_SIZE", 100),
		},
		Search: SearchConfig{
			DefaultTake: getEnvInt("SEARCH_DEFAULT_TAKE", 20),
			MaxTake:     getEnvInt("SEARCH_MAX_TAKE", 100),
		},
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
