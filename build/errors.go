package build

import (
	"errors"
	"fmt"
)

// ErrCompilationFailed is returned when one or more permutations in a
// group failed to compile. Per spec, a single failure does not abort
// in-flight siblings — every permutation runs to completion before this
// is reported.
var ErrCompilationFailed = errors.New("build: one or more permutations failed to compile")

// GroupFailureError reports how many of a group's permutations failed.
type GroupFailureError struct {
	Total  int
	Failed int
}

func (e *GroupFailureError) Error() string {
	return fmt.Sprintf("build: %d of %d permutations failed to compile", e.Failed, e.Total)
}

func (e *GroupFailureError) Unwrap() error { return ErrCompilationFailed }
