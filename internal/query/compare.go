package query

import (
	"errors"
	"strconv"
	"strings"

	"sntrack/internal/schema"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var (
	errInvalidNumber  = errors.New("not a valid number")
	errInvalidBoolean = errors.New("must be true or false")
	errInvalidDate    = errors.New("not a valid date, expected YYYY-MM-DD")
)

// Compare builds the condition for one field and a raw string value:
//
//	text       case-insensitive substring
//	integer    exact match, within the column's range
//	float      exact match
//	boolean    "true" or "false", any case
//	timestamp  on or after the given date
//	enum       exact match on the normalised value
func Compare(field schema.Field, raw string) (exp.Expression, error) {
	col := goqu.C(field.Name)
	value := strings.TrimSpace(raw)

	switch field.Kind {
	case schema.KindText:
		return goqu.Func("LOWER", col).Like("%" + strings.ToLower(value) + "%"), nil
	case schema.KindInteger, schema.KindBigInt:
		n, err := schema.ParseInteger(value, field.Kind)
		if err != nil {
			return nil, err
		}
		return col.Eq(n), nil
	case schema.KindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errInvalidNumber
		}
		return col.Eq(f), nil
	case schema.KindBoolean:
		switch strings.ToLower(value) {
		case "true":
			return col.IsTrue(), nil
		case "false":
			return col.IsFalse(), nil
		}
		return nil, errInvalidBoolean
	case schema.KindTimestamp:
		t, err := parseDate(value)
		if err != nil {
			return nil, err
		}
		return col.Gte(t), nil
	case schema.KindEnum:
		if field.Normalize != nil {
			normalized, err := field.Normalize(value)
			if err != nil {
				return nil, err
			}
			value = normalized
		}
		return col.Eq(value), nil
	default:
		return nil, nil
	}
}
