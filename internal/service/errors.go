package service

import (
	"errors"

	"github.com/forgo/shelf/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Request Errors =====
var (
	ErrFieldsRequired   = errors.New("all fields are required")
	ErrInvalidBookID    = errors.New("invalid book id")
	ErrInvalidYear      = errors.New("year must be a number")
	ErrInvalidCopies    = errors.New("addCopies must be a positive number")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidRequest   = errors.New("invalid request")
)

// ===== Book Errors =====
var (
	ErrBookNotFound    = errors.New("book not found")
	ErrCopiesRemaining = errors.New("cannot delete unless availableCopies is 0")
)

// ===== Store Errors =====
var (
	// ErrStoreFailure marks a store failure reported as an internal error.
	ErrStoreFailure = errors.New("store failure")

	// ErrUpdateRejected marks a store failure while replacing a book; it is
	// reported to the client as a bad request carrying the store's message.
	ErrUpdateRejected = errors.New("update rejected")
)

// ValidationError carries schema violations for a request
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0].Field + " " + e.Fields[0].Message
}

// StoreError wraps a persistence failure. Kind is the sentinel the operation
// reports it as (ErrStoreFailure, ErrUpdateRejected, ErrInvalidBookID or
// ErrInvalidRequest); Err is the underlying cause.
type StoreError struct {
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
