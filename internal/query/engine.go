// Package query turns flat string parameters into filter, sort and
// pagination plans over a schema registry.
package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"sntrack/internal/repository"
	"sntrack/internal/schema"
	custom_error "sntrack/pkg/errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 500
	// MaxPage keeps (page-1)*per_page well inside int64.
	MaxPage        = math.MaxInt32

	dateLayout = "2006-01-02"
)

const (
	ParamPage      = "page"
	ParamPerPage   = "per_page"
	ParamSortBy    = "sort_by"
	ParamSortOrder = "sort_order"
)

// Range binds a pair of parameters to an inclusive range on one column.
type Range struct {
	Column string
	Min    string
	Max    string
	// Dates are parsed as YYYY-MM-DD; the upper bound covers the whole day.
	Dates bool
}

// Alias maps a fixed parameter name onto a column.
type Alias struct {
	Column string
	// Exact compares with equality instead of the column kind's default rule.
	Exact bool
}

type Config struct {
	// Dynamic accepts any filterable registry field as a parameter.
	Dynamic bool
	Aliases map[string]Alias
	Ranges  []Range
}

type Engine struct {
	entity   *schema.Entity
	cfg      Config
	reserved map[string]struct{}
}

func NewEngine(entity *schema.Entity, cfg Config) *Engine {
	reserved := map[string]struct{}{
		ParamPage: {}, ParamPerPage: {}, ParamSortBy: {}, ParamSortOrder: {},
	}
	for _, r := range cfg.Ranges {
		reserved[r.Min] = struct{}{}
		reserved[r.Max] = struct{}{}
	}
	return &Engine{entity: entity, cfg: cfg, reserved: reserved}
}

// Plan is a parsed query: AND-ed conditions, ordering and one page window.
type Plan struct {
	repository.QueryBuilder
	Order   []exp.OrderedExpression
	Page    int
	PerPage int
}

func (p *Plan) Offset() uint {
	return uint(uint64(p.Page-1) * uint64(p.PerPage))
}

// Parse validates params and builds a plan. Soft-deleted rows are always
// excluded by the first condition. Unknown parameters are ignored.
func (e *Engine) Parse(params map[string]string) (*Plan, error) {
	verr := custom_error.NewValidationError()
	builder := repository.NewQueryBuilder(goqu.C("is_deleted").IsFalse())

	plan := &Plan{
		QueryBuilder: builder,
		Page:         positiveInt(params, ParamPage, DefaultPage, verr),
		PerPage:      positiveInt(params, ParamPerPage, DefaultPerPage, verr),
	}
	if plan.PerPage > MaxPerPage {
		plan.PerPage = MaxPerPage
	}
	if plan.Page > MaxPage {
		verr.Add(ParamPage, "must be at most "+strconv.Itoa(MaxPage))
		plan.Page = DefaultPage
	}

	for _, r := range e.cfg.Ranges {
		if cond := rangeCondition(r, params, verr); cond != nil {
			builder.AddCondition(cond)
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := e.reserved[key]; ok {
			continue
		}
		cond, err := e.condition(key, params[key])
		if err != nil {
			verr.Add(key, err.Error())
			continue
		}
		if cond != nil {
			builder.AddCondition(cond)
		}
	}

	plan.Order = e.order(params)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return plan, nil
}

func (e *Engine) condition(key, value string) (exp.Expression, error) {
	if alias, ok := e.cfg.Aliases[key]; ok {
		field, known := e.entity.Field(alias.Column)
		if !known {
			return nil, nil
		}
		if alias.Exact {
			return goqu.C(field.Name).Eq(value), nil
		}
		return Compare(field, value)
	}

	if !e.cfg.Dynamic {
		return nil, nil
	}
	field, ok := e.entity.Filterable(key)
	if !ok {
		return nil, nil
	}
	return Compare(field, value)
}

func (e *Engine) order(params map[string]string) []exp.OrderedExpression {
	byID := goqu.C("id").Asc()

	sortBy := params[ParamSortBy]
	field, ok := e.entity.Filterable(sortBy)
	if sortBy == "" || !ok {
		return []exp.OrderedExpression{byID}
	}

	col := goqu.C(field.Name)
	if strings.EqualFold(params[ParamSortOrder], "desc") {
		return []exp.OrderedExpression{col.Desc(), byID}
	}
	return []exp.OrderedExpression{col.Asc(), byID}
}

func positiveInt(params map[string]string, key string, def int, verr *custom_error.ValidationError) int {
	raw, ok := params[key]
	if !ok || raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		verr.Add(key, "must be a positive integer")
		return def
	}
	return n
}

func rangeCondition(r Range, params map[string]string, verr *custom_error.ValidationError) exp.Expression {
	minRaw, maxRaw := params[r.Min], params[r.Max]
	if minRaw == "" && maxRaw == "" {
		return nil
	}
	col := goqu.C(r.Column)

	if !r.Dates {
		switch {
		case minRaw != "" && maxRaw != "":
			return col.Between(exp.NewRangeVal(minRaw, maxRaw))
		case minRaw != "":
			return col.Gte(minRaw)
		default:
			return col.Lte(maxRaw)
		}
	}

	var conds []exp.Expression
	if minRaw != "" {
		start, err := parseDate(minRaw)
		if err != nil {
			verr.Add(r.Min, err.Error())
		} else {
			conds = append(conds, col.Gte(start))
		}
	}
	if maxRaw != "" {
		end, err := parseDate(maxRaw)
		if err != nil {
			verr.Add(r.Max, err.Error())
		} else {
			conds = append(conds, col.Lt(end.AddDate(0, 0, 1)))
		}
	}
	if len(conds) == 0 {
		return nil
	}
	return goqu.And(conds...)
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return t.UTC(), nil
}
