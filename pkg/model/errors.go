package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a field name is not declared by the
	// schema. It indicates a wiring mistake rather than bad user input.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrInvalidValue is returned when a proposed value fails type, format or
	// membership validation. The prior value is retained.
	ErrInvalidValue = errors.New("model: invalid value")
	// ErrFloorViolation is returned when removing a list item would shrink the
	// list below its declared minimum, or when the list cannot shrink on its own.
	ErrFloorViolation = errors.New("model: list floor reached")
)

// FieldError decorates one of the sentinel errors with the field (and list
// position) it concerns.
type FieldError struct {
	Field  string
	Index  int
	Sub    string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	path := e.Field
	if e.Index >= 0 {
		path = fmt.Sprintf("%s[%d]", path, e.Index)
	}
	if e.Sub != "" {
		path += "." + e.Sub
	}
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s", e.Err, path)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, path, e.Reason)
}

// Unwrap exposes the sentinel so callers can use errors.Is.
func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func unknownField(name string) error {
	return &FieldError{Field: name, Index: -1, Err: ErrUnknownField}
}

func invalidValue(name, reason string) error {
	return &FieldError{Field: name, Index: -1, Reason: reason, Err: ErrInvalidValue}
}

func floorViolation(name string, min int) error {
	return &FieldError{
		Field:  name,
		Index:  -1,
		Reason: fmt.Sprintf("at least %d item(s) required", min),
		Err:    ErrFloorViolation,
	}
}

// withPosition annotates an error raised while validating a list record.
func withPosition(err error, name string, index int) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{Field: name, Index: index, Sub: fe.Field, Reason: fe.Reason, Err: fe.Err}
	}
	return &FieldError{Field: name, Index: index, Reason: err.Error(), Err: ErrInvalidValue}
}
