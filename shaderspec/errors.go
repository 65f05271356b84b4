package shaderspec

import (
	"errors"
	"fmt"
)

// Sentinel errors for the shaderspec package. Use errors.Is against
// these; the returned errors also wrap path/text-specific detail.
var (
	// ErrSourceNotFound is returned when the input source or one of its
	// transitive #include dependencies could not be opened.
	ErrSourceNotFound = errors.New("shaderspec: source not found")

	// ErrMalformedOption is returned when a "#pragma option" line does
	// not match any of the bool/enum/integer-range grammars.
	ErrMalformedOption = errors.New("shaderspec: malformed option pragma")
)

// SourceNotFoundError reports which path could not be opened.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("shaderspec: source not found: %s: %v", e.Path, e.Err)
}

func (e *SourceNotFoundError) Unwrap() []error { return []error{ErrSourceNotFound, e.Err} }

// MalformedOptionError reports the raw pragma text that failed to parse.
type MalformedOptionError struct {
	Path string
	Text string
}

func (e *MalformedOptionError) Error() string {
	return fmt.Sprintf("shaderspec: %s: malformed option pragma: %q", e.Path, e.Text)
}

func (e *MalformedOptionError) Unwrap() error { return ErrMalformedOption }
