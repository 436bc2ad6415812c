package objects

import (
	"fmt"
	"strings"
)

// UnsupportedObjectError is returned when a manager receives an object of a
// variant it does not handle. It is a programming or input error, never
// recovered from.
type UnsupportedObjectError struct {
	Expected string
	Got      any
}

func NewUnsupportedObject(expected string, got any) *UnsupportedObjectError {
	return &UnsupportedObjectError{Expected: expected, Got: got}
}

func (e *UnsupportedObjectError) Error() string {
	return fmt.Sprintf("unsupported object: expected %s, got %T", e.Expected, e.Got)
}

// UnsupportedOperationError is returned for operations an entity variant
// intentionally does not offer, such as direct location creation.
type UnsupportedOperationError struct {
	Kind      string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s is not supported for %s objects", e.Operation, e.Kind)
}

// MissingIdentificationError is returned when an object carries none of the
// identifying keys its variant is looked up by.
type MissingIdentificationError struct {
	Kind    string
	Checked []string
}

func (e *MissingIdentificationError) Error() string {
	return fmt.Sprintf("%s object carries no identification property (checked %s)",
		e.Kind, strings.Join(e.Checked, ", "))
}

// MalformedObjectDataError is returned by the batch loader when an entry's
// data cannot be coerced into its declared variant.
type MalformedObjectDataError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *MalformedObjectDataError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s object data: field %q: %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s object data: %s", e.Kind, e.Reason)
}

// InvalidDataStructureError is returned by the batch loader when the overall
// shape of a batch entry is wrong, before looking at individual fields.
type InvalidDataStructureError struct {
	Reason string
}

func (e *InvalidDataStructureError) Error() string {
	return fmt.Sprintf("invalid data structure: %s", e.Reason)
}

// LanguageNotFoundError is returned when a language code is not in the
// built-in name table and no explicit name was supplied.
type LanguageNotFoundError struct {
	Code string
}

func (e *LanguageNotFoundError) Error() string {
	return fmt.Sprintf("no known name for language code %q", e.Code)
}
