package core

import (
	"errors"
	"fmt"
)

// The error taxonomy the service reports upward. Handlers map these onto HTTP
// statuses; everything else is treated as an opaque internal failure.

// ValidationError marks malformed input and names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError is returned when a record is absent or owned by a different
// user. Both cases look identical so record existence never leaks.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// DuplicateError marks a unique-constraint violation, such as reusing a
// category name or an email address.
type DuplicateError struct {
	Resource string
	Key      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Key)
}

// ProtectedCategoryError is returned when deleting a category flagged as
// non-deletable.
type ProtectedCategoryError struct {
	Name string
}

func (e *ProtectedCategoryError) Error() string {
	return fmt.Sprintf("category %q is protected and cannot be deleted", e.Name)
}

// StoreError wraps a failure of the underlying persistence layer. It is not
// locally recoverable and surfaces to callers without internal detail.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicate reports whether err is (or wraps) a DuplicateError.
func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
