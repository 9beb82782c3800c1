package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

func init() {
	// Bind values as statement arguments so the driver, not goqu, formats
	// timestamps and booleans.
	goqu.SetDefaultPrepared(true)
}

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
	dialect       string
}

// Querier is satisfied by both *goqu.Database and *goqu.TxDatabase.
type Querier interface {
	From(from ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

func NewRepository(db *sql.DB, dialect string) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New(dialect, db),
		dialect:       dialect,
	}
}

func (r *Repository) Dialect() string {
	return r.dialect
}

// WithTransaction runs fn inside one transaction: commit when fn returns nil,
// rollback on error or panic.
func (r *Repository) WithTransaction(ctx context.Context, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := r.GoquDBWrapper.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}

// InsertReturningID inserts record into table and returns the generated id.
// sqlite has no RETURNING support in goqu, so it falls back to LastInsertId.
func (r *Repository) InsertReturningID(ctx context.Context, q Querier, table string, record goqu.Record) (int, error) {
	query := q.Insert(table).Rows(record)

	if r.dialect == DialectSQLite {
		result, err := query.Executor().ExecContext(ctx)
		if err != nil {
			return 0, err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted id: %w", err)
		}
		return int(id), nil
	}

	var id int
	if _, err := query.Returning("id").Executor().ScanValContext(ctx, &id); err != nil {
		return 0, err
	}
	return id, nil
}
