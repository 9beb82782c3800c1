package custom_error

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAlreadyVoided is matched with errors.Is against *AlreadyVoidedError.
var ErrAlreadyVoided = errors.New("record is already voided")

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when nothing was collected, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func FieldError(field, message string) *ValidationError {
	e := NewValidationError()
	e.Add(field, message)
	return e
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

func NotFound(resource string, key any) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: fmt.Sprint(key)}
}

type AlreadyVoidedError struct {
	ID int
}

func (e *AlreadyVoidedError) Error() string {
	return fmt.Sprintf("serial number record %d is already voided", e.ID)
}

func (e *AlreadyVoidedError) Is(target error) bool {
	return target == ErrAlreadyVoided
}

// InternalError wraps anything the core did not anticipate.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Internal classifies err for op: known domain errors pass through,
// constraint violations become *IntegrityError, the rest *InternalError.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	if wrapped := WrapDBError(err); wrapped != err {
		return wrapped
	}
	return &InternalError{Op: op, Err: err}
}

func IsDomainError(err error) bool {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		voidedErr     *AlreadyVoidedError
		integrityErr  *IntegrityError
		internalErr   *InternalError
	)
	return errors.As(err, &validationErr) ||
		errors.As(err, &notFoundErr) ||
		errors.As(err, &voidedErr) ||
		errors.As(err, &integrityErr) ||
		errors.As(err, &internalErr)
}
