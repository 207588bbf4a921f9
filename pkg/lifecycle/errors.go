package lifecycle

import (
	"errors"
	"fmt"
)

// Category classifies a failed lifecycle operation. The transport boundary
// maps categories to protocol status codes; the controller never reaches
// around the boundary to produce transport responses itself.
type Category string

const (
	CategoryInvalidInput     Category = "invalid_input"
	CategoryDomainValidation Category = "domain_validation"
	CategoryAlreadyExists    Category = "already_exists"
	CategoryNotFound         Category = "not_found"
	CategoryNotAllowed       Category = "not_allowed"
	CategoryInternal         Category = "internal"
)

// Error is a categorized lifecycle failure carrying the operation, the
// offending datastream name when available, and the underlying cause.
type Error struct {
	Category Category
	Op       string
	Name     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Message)
	if e.Name != "" {
		msg += fmt.Sprintf(" (datastream %s)", e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf extracts the failure category from err. Uncategorized errors
// report CategoryInternal.
func CategoryOf(err error) Category {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Category
	}
	return CategoryInternal
}
