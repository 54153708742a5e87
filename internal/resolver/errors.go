package resolver

import "errors"

var (
	// ErrConflict is returned when two differently-sourced components land
	// on the same name under StrategyError.
	ErrConflict = errors.New("component name conflict")

	// ErrInvalidRef is returned for $ref values that cannot be interpreted
	// as a location.
	ErrInvalidRef = errors.New("invalid reference")

	// ErrDoubleRegistration signals an attempt to memoize the same original
	// reference twice with different replacements. This is an internal
	// invariant violation and should never occur in correct operation.
	ErrDoubleRegistration = errors.New("reference registered twice")
)
