package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/orchestrator/internal/database"
)

// DefaultMigrationsDir is resolved relative to the working directory.
const DefaultMigrationsDir = "migrations"

// MigrationOptions selects the migration set and how far to move. Steps of zero applies
// every pending migration; a negative value rolls back that many.
type MigrationOptions struct {
	Dir   string
	Steps int
}

// migrationTarget returns the golang-migrate source and database URLs for a driver.
func migrationTarget(dir, driver, dsn string) (string, string, error) {
	if dir == "" {
		dir = DefaultMigrationsDir
	}

	switch driver {
	case database.DriverPostgres:
		return "file://" + filepath.ToSlash(filepath.Join(dir, "postgresql")), dsn, nil
	case database.DriverMySQL:
		if !strings.HasPrefix(dsn, "mysql://") {
			dsn = "mysql://" + dsn
		}
		return "file://" + filepath.ToSlash(filepath.Join(dir, "mysql")), dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// RunMigrations moves the schema of the configured database. An already current schema
// is not an error.
func RunMigrations(logger *slog.Logger, driver, dsn string, opts MigrationOptions) error {
	sourceURL, databaseURL, err := migrationTarget(opts.Dir, driver, dsn)
	if err != nil {
		return err
	}

	logger.Info("running database migrations",
		slog.String("driver", driver),
		slog.String("source", sourceURL),
		slog.Int("steps", opts.Steps),
	)

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if opts.Steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(opts.Steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("migrations completed, schema is empty")
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	default:
		logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}
