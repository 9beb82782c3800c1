// Package dbtest opens a migrated sqlite database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"sntrack/internal/database"
	"sntrack/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// NewRepository returns a repository over a fresh sqlite file in t.TempDir()
// with every migration applied. The database is closed on cleanup.
func NewRepository(t *testing.T) *repository.Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sntrack.db")
	require.NoError(t, database.RunMigrations(database.DriverSQLite, path, zap.NewNop()))

	db, dialect, err := database.Open(context.Background(), database.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewRepository(db, dialect)
}
