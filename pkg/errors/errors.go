package errors

import (
	"errors"
	"fmt"
)

// Kinds callers branch on with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// Error carries a machine readable code next to the cause. errors.Is matches
// both its kind and anything in the cause chain.
type Error struct {
	Code string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// WrapWithCode tags err with kind and code. A nil err stays nil.
func WrapWithCode(kind error, code string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Kind: kind, Err: err}
}

// GetCode returns the code of the first *Error in the chain.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
