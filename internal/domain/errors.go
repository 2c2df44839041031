package domain

import "errors"

// Validation errors: detected before the store is touched.
var (
	ErrRequiredFieldsMissing = errors.New("required field(s) missing")
	ErrMissingID             = errors.New("missing _id")
	ErrNoUpdateFields        = errors.New("no update field(s) sent")
)

// Store outcome errors.
var (
	// ErrNotFound is returned by stores when no issue matches the id,
	// including ids the store cannot parse.
	ErrNotFound = errors.New("issue not found")

	ErrCouldNotUpdate = errors.New("could not update")
	ErrCouldNotDelete = errors.New("could not delete")
)

// ErrInvalidValue is returned when a field value cannot be cast to the
// field's type.
var ErrInvalidValue = errors.New("invalid field value")
