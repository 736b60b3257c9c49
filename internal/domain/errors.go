package domain

import "errors"

// Sentinel errors shared by services and delivery. Services may wrap them with
// extra context via fmt.Errorf("%w: ...", ErrX); callers match with errors.Is.
var (
	ErrUnauthenticated = errors.New("authorization required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")

	// ErrInvalidFilter is returned when a query filter names an unknown field or operator,
	// or carries a value that cannot be coerced to the field's type.
	ErrInvalidFilter = errors.New("filter contains invalid field or operator")
	// ErrInequalityConflict is returned when non-equality filters target more than one field.
	ErrInequalityConflict = errors.New("inequality filter is allowed on only one field")

	// ErrCacheMiss is returned by Cache.Get when the key is absent.
	ErrCacheMiss = errors.New("cache miss")
)
