package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres  = "postgres"
	StorageDriverSQLite    = "sqlite"
	StorageDriverDatastore = "datastore"
)

type envConfig struct {
	APP_PORT      string
	LOG_FILE_PATH string
	LOG_LEVEL     string

	STORAGE_DRIVER string

	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	SQLITE_PATH string

	GCP_PROJECT_ID string

	REDIS_ADDR      string
	REDIS_PASSWORD  string
	REDIS_DB        int
	BOARD_CACHE_TTL time.Duration

	ELASTICSEARCH_URL   string
	ELASTICSEARCH_INDEX string

	JWT_SECRET string
	JWT_ISSUER string

	RATE_LIMIT_RPS   float64
	RATE_LIMIT_BURST int
}

// DefaultEnvConfig is populated by LoadEnvConfig.
var DefaultEnvConfig = envConfig{}

// LoadEnvConfig reads an optional .env file and then the process environment.
func LoadEnvConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return err
	}
	DefaultEnvConfig = cfg
	return nil
}

func fromEnv() (envConfig, error) {
	p := &parser{}
	cfg := envConfig{
		APP_PORT:      stringEnv("APP_PORT", "8080"),
		LOG_FILE_PATH: stringEnv("LOG_FILE_PATH", "logs/taskboard.log"),
		LOG_LEVEL:     stringEnv("LOG_LEVEL", "info"),

		STORAGE_DRIVER: stringEnv("STORAGE_DRIVER", StorageDriverSQLite),

		DB_HOST:              stringEnv("DB_HOST", "localhost"),
		DB_PORT:              p.intEnv("DB_PORT", 5432),
		DB_USER:              stringEnv("DB_USER", "postgres"),
		DB_PASSWORD:          stringEnv("DB_PASSWORD", ""),
		DB_NAME:              stringEnv("DB_NAME", "taskboard"),
		DB_SSL_MODE:          stringEnv("DB_SSL_MODE", "disable"),
		DB_MAX_OPEN_CONNS:    p.intEnv("DB_MAX_OPEN_CONNS", 25),
		DB_MAX_IDLE_CONNS:    p.intEnv("DB_MAX_IDLE_CONNS", 10),
		DB_CONN_MAX_LIFETIME: p.durationEnv("DB_CONN_MAX_LIFETIME", time.Hour),

		SQLITE_PATH: stringEnv("SQLITE_PATH", "taskboard.db"),

		GCP_PROJECT_ID: stringEnv("GCP_PROJECT_ID", ""),

		REDIS_ADDR:      stringEnv("REDIS_ADDR", ""),
		REDIS_PASSWORD:  stringEnv("REDIS_PASSWORD", ""),
		REDIS_DB:        p.intEnv("REDIS_DB", 0),
		BOARD_CACHE_TTL: p.durationEnv("BOARD_CACHE_TTL", 5*time.Minute),

		ELASTICSEARCH_URL:   stringEnv("ELASTICSEARCH_URL", ""),
		ELASTICSEARCH_INDEX: stringEnv("ELASTICSEARCH_INDEX", "tasks"),

		JWT_SECRET: stringEnv("JWT_SECRET", ""),
		JWT_ISSUER: stringEnv("JWT_ISSUER", ""),

		RATE_LIMIT_RPS:   p.floatEnv("RATE_LIMIT_RPS", 10),
		RATE_LIMIT_BURST: p.intEnv("RATE_LIMIT_BURST", 20),
	}
	if p.err != nil {
		return envConfig{}, p.err
	}

	switch cfg.STORAGE_DRIVER {
	case StorageDriverPostgres, StorageDriverSQLite:
	case StorageDriverDatastore:
		if cfg.GCP_PROJECT_ID == "" {
			return envConfig{}, fmt.Errorf("GCP_PROJECT_ID is required for storage driver %q", cfg.STORAGE_DRIVER)
		}
	default:
		return envConfig{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.STORAGE_DRIVER)
	}
	if cfg.JWT_SECRET == "" {
		return envConfig{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func stringEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// parser keeps the first conversion error so fromEnv can read every key in one pass.
type parser struct {
	err error
}

func (p *parser) intEnv(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n
}

func (p *parser) floatEnv(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f
}

func (p *parser) durationEnv(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d
}
