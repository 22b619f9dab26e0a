package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy roots. Specific errors wrap one of these so callers can
// classify with errors.Is and map to an HTTP status uniformly.
var (
	ErrValidation     = errors.New("validation failed")
	ErrStateConflict  = errors.New("state conflict")
	ErrPermission     = errors.New("permission denied")
	ErrInvariantGuard = errors.New("invariant violated")
	ErrNotFound       = errors.New("resource not found")
)

// Validation errors
var (
	ErrDueDateNotFuture = fmt.Errorf("%w: due date must be after today", ErrValidation)
	ErrEmptyTitle       = fmt.Errorf("%w: book title is required", ErrValidation)
	ErrEmptyAuthor      = fmt.Errorf("%w: book author is required", ErrValidation)
	ErrNegativeStock    = fmt.Errorf("%w: total stock must not be negative", ErrValidation)
	ErrInvalidRole      = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrEmptyUsername    = fmt.Errorf("%w: username is required", ErrValidation)
	ErrEmptyFullName    = fmt.Errorf("%w: full name is required", ErrValidation)
	ErrWeakPassword     = fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
)

// State conflict errors
var (
	ErrOutOfStock        = fmt.Errorf("%w: book is out of stock", ErrStateConflict)
	ErrNotPending        = fmt.Errorf("%w: record is not pending approval", ErrStateConflict)
	ErrBorrowLimit       = fmt.Errorf("%w: active borrow limit reached", ErrStateConflict)
	ErrDuplicateUsername = fmt.Errorf("%w: username already exists", ErrStateConflict)
)

// Invariant guard errors
var (
	ErrLastAdmin = fmt.Errorf("%w: cannot delete the last admin account", ErrInvariantGuard)
)

// Not found errors
var (
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrBookNotFound    = fmt.Errorf("%w: book", ErrNotFound)
	ErrBorrowNotFound  = fmt.Errorf("%w: borrow record", ErrNotFound)
	ErrRequestNotFound = fmt.Errorf("%w: edit request", ErrNotFound)
)
