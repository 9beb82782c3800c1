package database

import (
	"sntrack/internal/database/migration"
	"sntrack/migrations"

	"go.uber.org/zap"
)

func migrationsDir(driver string) string {
	if driver == DriverSQLite {
		return DriverSQLite
	}
	return DriverPostgres
}

// RunMigrations applies the embedded migrations of the driver's dialect.
func RunMigrations(driver, dbURL string, log *zap.Logger) error {
	return migration.MigrateFS(MigrationURL(driver, dbURL), migrations.FS, migrationsDir(driver), false, log)
}

// RollbackMigration reverts the newest embedded migration.
func RollbackMigration(driver, dbURL string, log *zap.Logger) error {
	return migration.RollbackFS(MigrationURL(driver, dbURL), migrations.FS, migrationsDir(driver), log)
}
