package workspace

import (
	"errors"
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

var (
	ErrSchema            = errors.New("schema error")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrOutOfRange        = errors.New("value out of range")
	ErrRequiredField     = errors.New("required field cannot be blank")
	ErrDanglingReference = errors.New("dangling reference")
	ErrRequiredReference = errors.New("object is the target of a required reference")
	ErrNotFound          = errors.New("object not found")
	ErrPort              = errors.New("invalid port connection")
)

// FieldError carries the context of a rejected field mutation.
type FieldError struct {
	Op    string
	Type  idd.Type
	Field string
	Cause error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Cause)
	}
	return fmt.Sprintf("%s %s (field %s): %v", e.Op, e.Type, e.Field, e.Cause)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

func fieldErr(op string, s *idd.Schema, f *idd.Field, cause error) error {
	fe := &FieldError{Op: op, Type: s.Type, Cause: cause}
	if f != nil {
		fe.Field = f.Name
	}
	return fe
}
