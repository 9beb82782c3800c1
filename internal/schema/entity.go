package schema

import (
	"time"

	custom_error "sntrack/pkg/errors"
)

type Mode int

const (
	// ModeCreate requires every required field and fills defaults.
	ModeCreate Mode = iota
	// ModePartial validates only the supplied fields.
	ModePartial
)

// FieldSet is validated, typed input keyed by column name.
type FieldSet map[string]any

func (fs FieldSet) Has(name string) bool {
	_, ok := fs[name]
	return ok
}

func (fs FieldSet) String(name string) (string, bool) {
	s, ok := fs[name].(string)
	return s, ok
}

func (fs FieldSet) Int(name string) (int64, bool) {
	n, ok := fs[name].(int64)
	return n, ok
}

func (fs FieldSet) Bool(name string) (bool, bool) {
	b, ok := fs[name].(bool)
	return b, ok
}

func (fs FieldSet) Time(name string) (time.Time, bool) {
	t, ok := fs[name].(time.Time)
	return t, ok
}

// Entity is the field registry of one table.
type Entity struct {
	Name   string
	Table  string
	fields []Field
	byName map[string]Field
}

func NewEntity(name, table string, fields ...Field) *Entity {
	e := &Entity{
		Name:   name,
		Table:  table,
		fields: fields,
		byName: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		e.byName[f.Name] = f
	}
	return e
}

func (e *Entity) Field(name string) (Field, bool) {
	f, ok := e.byName[name]
	return f, ok
}

func (e *Entity) Fields() []Field {
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out
}

// Filterable reports the field when the query engine may filter or sort on it.
func (e *Entity) Filterable(name string) (Field, bool) {
	f, ok := e.byName[name]
	if !ok || !f.Filterable {
		return Field{}, false
	}
	return f, true
}

// Validate turns untyped input into a FieldSet. Unknown and server-only
// keys are dropped; all failures are reported together.
func (e *Entity) Validate(input map[string]any, mode Mode, now time.Time) (FieldSet, error) {
	out := FieldSet{}
	verr := custom_error.NewValidationError()

	for _, f := range e.fields {
		if f.ServerOnly {
			continue
		}

		raw, supplied := input[f.Name]
		if !supplied {
			if mode == ModeCreate {
				if f.Required {
					verr.Add(f.Name, "Missing data for required field.")
				} else if f.Default != nil {
					out[f.Name] = f.Default(now)
				}
			}
			continue
		}

		value, err := f.Coerce(raw)
		if err != nil {
			verr.Add(f.Name, err.Error())
			continue
		}
		if f.Required {
			if s, ok := value.(string); ok && s == "" {
				verr.Add(f.Name, "Field may not be empty.")
				continue
			}
		}
		out[f.Name] = value
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
