package repository

import "github.com/doug-martin/goqu/v9/exp"

// QueryBuilder contributes WHERE conditions to a select. All conditions are
// combined with AND.
type QueryBuilder interface {
	BuildConditions() []exp.Expression
}
