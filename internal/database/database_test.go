package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"/tmp/a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite&_txlock=immediate",
		SQLiteDSN("/tmp/a.db"))
	assert.Equal(t,
		"/tmp/a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite&_txlock=immediate",
		SQLiteDSN("/tmp/a.db?mode=rwc"))
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db", MigrationURL(DriverPostgres, "postgres://u@h/db"))
	assert.Equal(t, "sqlite://"+SQLiteDSN("/tmp/a.db"), MigrationURL(DriverSQLite, "/tmp/a.db"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestRunMigrationsIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(DriverSQLite, path, zap.NewNop()))
	require.NoError(t, RunMigrations(DriverSQLite, path, zap.NewNop()))

	db, dialect, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite3", dialect)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"batch_info", "batch_references", "serial_number_records"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestRollbackMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(DriverSQLite, path, zap.NewNop()))
	require.NoError(t, RollbackMigration(DriverSQLite, path, zap.NewNop()))

	db, _, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='serial_number_records'").Scan(&count))
	assert.Equal(t, 0, count)
}
