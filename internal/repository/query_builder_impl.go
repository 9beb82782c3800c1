package repository

import (
	"github.com/doug-martin/goqu/v9/exp"
)

type queryBuilderImpl struct {
	conditions []exp.Expression
}

func NewQueryBuilder(conditions ...exp.Expression) *queryBuilderImpl {
	return &queryBuilderImpl{conditions: conditions}
}

func (q *queryBuilderImpl) AddCondition(condition exp.Expression) {
	q.conditions = append(q.conditions, condition)
}

func (q *queryBuilderImpl) BuildConditions() []exp.Expression {
	out := make([]exp.Expression, len(q.conditions))
	copy(out, q.conditions)
	return out
}
