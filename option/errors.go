package option

import "errors"

// Sentinel errors for the option package.
var (
	// ErrEmptyValues is returned when an enumeration option is
	// constructed with no values.
	ErrEmptyValues = errors.New("option: enumeration must have at least one value")

	// ErrInvalidRange is returned when an integer range option is
	// constructed with min greater than max.
	ErrInvalidRange = errors.New("option: integer range minimum must not exceed maximum")
)
