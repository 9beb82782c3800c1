package custom_error

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Violation string

const (
	UniqueViolation     Violation = "unique_violation"
	ForeignKeyViolation Violation = "foreign_key_violation"
	NotNullViolation    Violation = "not_null_violation"
	CheckViolation      Violation = "check_violation"
)

// PostgreSQL error codes (class 23, integrity constraint violation).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// IntegrityError is a constraint violation reported by the store.
type IntegrityError struct {
	Violation Violation
	Code      string
	message   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s (code: %s)", e.Violation, e.message, e.Code)
}

// WrapDBError classifies a driver error. Constraint violations become
// *IntegrityError, everything else is returned unchanged.
func WrapDBError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if v, ok := pgViolation(string(pqErr.Code)); ok {
			return &IntegrityError{Violation: v, Code: string(pqErr.Code), message: pqErr.Message}
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		if v, ok := sqliteViolation(liteErr.Code()); ok {
			return &IntegrityError{Violation: v, Code: fmt.Sprint(liteErr.Code()), message: liteErr.Error()}
		}
	}

	return err
}

func pgViolation(code string) (Violation, bool) {
	switch code {
	case pgUniqueViolation:
		return UniqueViolation, true
	case pgForeignKeyViolation:
		return ForeignKeyViolation, true
	case pgNotNullViolation:
		return NotNullViolation, true
	case pgCheckViolation:
		return CheckViolation, true
	default:
		return "", false
	}
}

func sqliteViolation(code int) (Violation, bool) {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation, true
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation, true
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation, true
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation, true
	case sqlite3.SQLITE_CONSTRAINT:
		return ForeignKeyViolation, true
	default:
		return "", false
	}
}
