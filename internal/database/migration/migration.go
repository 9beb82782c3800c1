package migration

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres DB
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"   // register sqlite DB (modernc)
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source for --dir
)

// Migrate applies all pending migrations. migrationsPath is a source URL
// such as file:///path/to/dir.
func Migrate(dbURL string, migrationsPath string, verbose bool, log *zap.Logger) error {
	log.Info("Running database migration")

	dbMigrate, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return err
	}
	defer closeMigrate(dbMigrate, log)

	return up(dbMigrate, verbose, log)
}

// MigrateFS applies the migrations found in dir of an embedded filesystem.
func MigrateFS(dbURL string, fsys fs.FS, dir string, verbose bool, log *zap.Logger) error {
	log.Info("Running embedded database migration", zap.String("dir", dir))

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	dbMigrate, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return err
	}
	defer closeMigrate(dbMigrate, log)

	return up(dbMigrate, verbose, log)
}

// Rollback reverts the last applied migration.
func Rollback(dbURL string, migrationsPath string, log *zap.Logger) error {
	dbMigrate, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return err
	}
	defer closeMigrate(dbMigrate, log)

	return down(dbMigrate, log)
}

// RollbackFS reverts the last applied migration using an embedded source.
func RollbackFS(dbURL string, fsys fs.FS, dir string, log *zap.Logger) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	dbMigrate, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return err
	}
	defer closeMigrate(dbMigrate, log)

	return down(dbMigrate, log)
}

func down(dbMigrate *migrate.Migrate, log *zap.Logger) error {
	dbMigrate.Log = NewLogger(log, true)

	if err := dbMigrate.Steps(-1); err != nil {
		log.Error("Database rollback failed", zap.Error(err))
		return err
	}
	log.Info("Database rollback: one step reverted")
	return nil
}

func up(dbMigrate *migrate.Migrate, verbose bool, log *zap.Logger) error {
	dbMigrate.Log = NewLogger(log, verbose)

	err := dbMigrate.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database migration: no change needed")
		} else {
			log.Error("Database migration failed", zap.Error(err))
			return err
		}
	}

	return nil
}

func closeMigrate(m *migrate.Migrate, log *zap.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		log.Warn("Closing migration handles failed", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
	}
}

type Logger struct {
	logger  *zap.Logger
	verbose bool
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Sugar().Infof("DB Migration: "+format, v...)
}

func (l *Logger) Verbose() bool {
	return l.verbose
}

func NewLogger(logger *zap.Logger, verbose bool) *Logger {
	return &Logger{
		logger:  logger,
		verbose: verbose,
	}
}
