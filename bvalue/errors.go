package bvalue

import (
	"errors"
	"fmt"
)

// Decode failures fall into a small set of kinds. Callers match on these
// with errors.Is; the field that triggered the failure travels in a
// FieldError wrapper.
var (
	ErrMissingField        = errors.New("missing field")
	ErrWrongType           = errors.New("wrong type")
	ErrInvalidUTF8         = errors.New("invalid utf-8")
	ErrMalformedStructure  = errors.New("malformed structure")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrTrailingData        = errors.New("trailing data after top-level value")
	ErrOutOfRange          = errors.New("value out of range")
)

// FieldError ties one of the error kinds to the dictionary field it was
// raised for.
type FieldError struct {
	Field    string
	Expected string
	Kind     error
}

func (e *FieldError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("field %q: %v, expected %s", e.Field, e.Kind, e.Expected)
	}
	return fmt.Sprintf("field %q: %v", e.Field, e.Kind)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// Missing reports a required field that is absent.
func Missing(field string) error {
	return &FieldError{Field: field, Kind: ErrMissingField}
}

// WrongType reports a field holding a different bencode type than expected.
func WrongType(field, expected string) error {
	return &FieldError{Field: field, Expected: expected, Kind: ErrWrongType}
}

// InvalidUTF8 reports a byte string that is not valid UTF-8 where text is
// required.
func InvalidUTF8(field string) error {
	return &FieldError{Field: field, Kind: ErrInvalidUTF8}
}

// OutOfRange reports an integer outside the domain of its field.
func OutOfRange(field string) error {
	return &FieldError{Field: field, Kind: ErrOutOfRange}
}

// Malformed reports a structural defect that is not tied to a single typed
// field lookup.
func Malformed(context string) error {
	return fmt.Errorf("%w: %s", ErrMalformedStructure, context)
}
