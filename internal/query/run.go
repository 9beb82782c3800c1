package query

import (
	"context"
	"fmt"

	"sntrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Run counts the rows matching plan and scans one page of them into T.
func Run[T any](ctx context.Context, ds *goqu.SelectDataset, plan *Plan) (models.Page[T], error) {
	filtered := ds.Where(plan.BuildConditions()...)

	total, err := filtered.CountContext(ctx)
	if err != nil {
		return models.Page[T]{}, fmt.Errorf("count: %w", err)
	}

	data := []T{}
	if total > 0 {
		err = filtered.
			Order(plan.Order...).
			Limit(uint(plan.PerPage)).
			Offset(plan.Offset()).
			ScanStructsContext(ctx, &data)
		if err != nil {
			return models.Page[T]{}, fmt.Errorf("scan page: %w", err)
		}
	}

	return models.Page[T]{
		Total:       total,
		Pages:       PageCount(total, plan.PerPage),
		CurrentPage: plan.Page,
		PerPage:     plan.PerPage,
		Data:        data,
	}, nil
}

func PageCount(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
