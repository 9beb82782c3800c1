package custom_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		violation Violation
	}{
		{"unique", &pq.Error{Code: "23505", Message: "duplicate key"}, UniqueViolation},
		{"foreign key", &pq.Error{Code: "23503", Message: "violates foreign key"}, ForeignKeyViolation},
		{"not null", &pq.Error{Code: "23502", Message: "null value"}, NotNullViolation},
		{"wrapped unique", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), UniqueViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var integrityErr *IntegrityError
			assert.True(t, errors.As(WrapDBError(tt.err), &integrityErr))
			assert.Equal(t, tt.violation, integrityErr.Violation)
		})
	}
}

func TestWrapDBErrorPassesThroughOtherErrors(t *testing.T) {
	syntax := &pq.Error{Code: "42601"}
	assert.Same(t, syntax, WrapDBError(syntax))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, WrapDBError(plain))
	assert.Nil(t, WrapDBError(nil))
}

func TestAlreadyVoidedMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("void: %w", &AlreadyVoidedError{ID: 7})
	assert.True(t, errors.Is(err, ErrAlreadyVoided))
	assert.Contains(t, err.Error(), "7")
}

func TestValidationErrorKeepsFirstMessagePerField(t *testing.T) {
	e := NewValidationError()
	assert.Nil(t, e.OrNil())

	e.Add("verified_sn", "required field missing")
	e.Add("verified_sn", "second message")
	e.Add("part_id", "required field missing")

	assert.Equal(t, "required field missing", e.Fields["verified_sn"])
	assert.Equal(t, "validation failed: part_id: required field missing; verified_sn: required field missing", e.Error())
	assert.Error(t, e.OrNil())
}

func TestInternalClassification(t *testing.T) {
	assert.Nil(t, Internal("op", nil))

	notFound := NotFound("batch", "B-1")
	assert.Same(t, notFound, Internal("op", notFound))

	var integrityErr *IntegrityError
	assert.True(t, errors.As(Internal("op", &pq.Error{Code: "23505"}), &integrityErr))

	var internalErr *InternalError
	assert.True(t, errors.As(Internal("create record", errors.New("boom")), &internalErr))
	assert.Equal(t, "create record: boom", internalErr.Error())
}
