package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/allisson/secretgate/internal/database"
)

// migrationsPath returns the migration source for a SQL driver.
func migrationsPath(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "file://migrations/postgresql", nil
	case "mysql":
		return "file://migrations/mysql", nil
	default:
		return "", fmt.Errorf("unsupported driver for sql migrations: %s", driver)
	}
}

// RunMigrations applies all pending SQL migrations for driver. It is a no-op
// when the schema is already current.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	path, err := migrationsPath(driver)
	if err != nil {
		return err
	}

	m, err := migrate.New(path, migrationURL(driver, connectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Error("failed to close migrate",
				slog.Any("source_error", srcErr),
				slog.Any("database_error", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationURL turns a go-sql-driver DSN into the mysql:// URL migrate expects.
func migrationURL(driver, connectionString string) string {
	if driver == "mysql" && !strings.Contains(connectionString, "://") {
		return "mysql://" + connectionString
	}
	return connectionString
}

// RunMongoMigrations creates the MongoDB indexes. Collections need no schema.
func RunMongoMigrations(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	logger.Info("running database migrations", slog.String("driver", "mongodb"))

	created, err := database.EnsureMongoIndexes(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully", slog.Int("indexes", created))
	return nil
}
