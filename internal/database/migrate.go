package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/locvowork/taskboard/internal/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// MigrationConfig controls RunMigrations.
type MigrationConfig struct {
	// DatabaseURL is required for Postgres; migrate opens and closes its own connection.
	DatabaseURL     string
	MigrationsTable string
}

// RunMigrations applies every pending up migration for the database's dialect.
func RunMigrations(ctx context.Context, db *DB, cfg MigrationConfig) error {
	if cfg.MigrationsTable == "" {
		cfg.MigrationsTable = "schema_migrations"
	}

	src, err := iofs.New(migrations, "migrations/"+string(db.Dialect))
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	var m *migrate.Migrate
	switch db.Dialect {
	case Postgres:
		if cfg.DatabaseURL == "" {
			return errors.New("postgres migrations need a database URL")
		}
		m, err = migrate.NewWithSourceInstance("iofs", src, cfg.DatabaseURL+"&x-migrations-table="+cfg.MigrationsTable)
		if err != nil {
			return fmt.Errorf("create migration instance: %w", err)
		}
		defer m.Close()
	case SQLite:
		driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{MigrationsTable: cfg.MigrationsTable})
		if err != nil {
			return fmt.Errorf("create migration driver: %w", err)
		}
		// m.Close would close db.DB through the driver, so the instance is left to the GC.
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", driver)
		if err != nil {
			return fmt.Errorf("create migration instance: %w", err)
		}
	default:
		return fmt.Errorf("unsupported dialect %q", db.Dialect)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.InfoLog(ctx, "database schema is up to date")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.InfoLog(ctx, "database migrated to version %d (dirty: %v)", version, dirty)
	return nil
}
