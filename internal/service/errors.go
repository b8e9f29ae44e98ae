package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("error invalid argument")
	ErrNotFound        = errors.New("error not found")
	ErrDivisionByZero  = errors.New("error division by zero")
)

// Error carries the kind of failure together with the offending value.
// Kind is one of the sentinel errors above, so errors.Is works on it.
type Error struct {
	Kind  error
	Field string
	Value any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s = %v", e.Kind, e.Field, e.Value)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func InvalidArgument(field string, value any) error {
	return &Error{Kind: ErrInvalidArgument, Field: field, Value: value}
}

func NotFound(field string, value any) error {
	return &Error{Kind: ErrNotFound, Field: field, Value: value}
}

func DivisionByZero(field string, value any) error {
	return &Error{Kind: ErrDivisionByZero, Field: field, Value: value}
}
