package database

import (
	"context"
	"database/sql"
	"fmt"

	"sntrack/internal/repository"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured driver and returns the goqu dialect that
// matches it.
func Open(ctx context.Context, driver, dbURL string) (*sql.DB, string, error) {
	switch driver {
	case DriverPostgres, "":
		db, err := NewPostgresConnection(ctx, dbURL)
		return db, repository.DialectPostgres, err
	case DriverSQLite:
		db, err := NewSQLiteConnection(ctx, dbURL)
		return db, repository.DialectSQLite, err
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// MigrationURL is the golang-migrate database URL for a connection setting.
func MigrationURL(driver, dbURL string) string {
	if driver == DriverSQLite {
		return "sqlite://" + SQLiteDSN(dbURL)
	}
	return dbURL
}
