// Package schema holds the field registries of the stored entities. A
// registry is built once from the entity definition and drives both input
// validation and dynamic query filtering, so no reflection is needed at
// request time.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	KindText Kind = iota
	// KindInteger is a 32-bit column.
	KindInteger
	KindBigInt
	KindFloat
	KindBoolean
	KindTimestamp
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindTimestamp:
		return "timestamp"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// IntRange is the inclusive range a column of kind k can store. It is
// only meaningful for KindInteger and KindBigInt.
func (k Kind) IntRange() (min, max int64) {
	if k == KindInteger {
		return math.MinInt32, math.MaxInt32
	}
	return math.MinInt64, math.MaxInt64
}

// Field describes one column of an entity.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// ServerOnly fields are never accepted from input.
	ServerOnly bool
	// Filterable fields may be used by the query engine for filters and sorting.
	Filterable bool
	// Default supplies the creation value when the caller omits the field.
	Default func(now time.Time) any
	// Normalize validates and canonicalises enum values.
	Normalize func(string) (string, error)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Coerce converts a decoded JSON value into the field's Go type:
// string, int64, float64, bool or time.Time (UTC).
func (f Field) Coerce(value any) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("field may not be null")
	}

	switch f.Kind {
	case KindText:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("not a valid string")
		}
		return s, nil
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("not a valid string")
		}
		if f.Normalize == nil {
			return s, nil
		}
		return f.Normalize(s)
	case KindInteger, KindBigInt:
		return coerceInteger(value, f.Kind)
	case KindFloat:
		return coerceFloat(value)
	case KindBoolean:
		return coerceBool(value)
	case KindTimestamp:
		return coerceTimestamp(value)
	default:
		return nil, fmt.Errorf("unsupported field kind %s", f.Kind)
	}
}

var (
	errNotInteger = fmt.Errorf("not a valid integer")
	errOutOfRange = fmt.Errorf("value out of range")
)

func coerceInteger(value any, kind Kind) (int64, error) {
	min, max := kind.IntRange()

	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, errNotInteger
		}
		// float64(max)+1 is exact for int32 and rounds to 2^63 for int64.
		if v < float64(min) || v >= float64(max)+1 {
			return 0, errOutOfRange
		}
		n = int64(v)
	case json.Number:
		return ParseInteger(v.String(), kind)
	case string:
		return ParseInteger(v, kind)
	default:
		return 0, errNotInteger
	}

	if n < min || n > max {
		return 0, errOutOfRange
	}
	return n, nil
}

// ParseInteger parses a decimal string and checks it fits the column kind.
func ParseInteger(raw string, kind Kind) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, errOutOfRange
	}
	if err != nil {
		return 0, errNotInteger
	}
	if min, max := kind.IntRange(); n < min || n > max {
		return 0, errOutOfRange
	}
	return n, nil
}

func coerceFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("not a valid number")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("not a valid number")
	}
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	case float64:
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
	}
	return false, fmt.Errorf("not a valid boolean")
}

func coerceTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("not a valid datetime")
}
