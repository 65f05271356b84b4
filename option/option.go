// Package option implements the permutation engine: a small polymorphic
// option model (boolean, enumeration, integer-range) and the mixed-radix
// enumerator that expands an ordered option list into its full Cartesian
// product of permutations, each addressed by a dense integer key.
package option

import (
	"fmt"
	"math/bits"
	"strconv"
)

// Kind tags the three option variants. There is no inheritance hierarchy
// here — Option is a small tagged sum and every operation dispatches on
// Kind.
type Kind int

const (
	// Boolean is a two-valued option. Index 0 emits no macro; index 1
	// emits a single macro with value "1".
	Boolean Kind = iota
	// Enumeration is an N-valued named option. Every index emits two
	// macros: a flag macro and a value macro.
	Enumeration
	// IntegerRange is a contiguous integer range [Min, Max]. Every index
	// emits two macros, same shape as Enumeration.
	IntegerRange
)

// Define is a single preprocessor macro emitted for one permutation:
// #define Name Value.
type Define struct {
	Name  string
	Value string
}

// Option is one orthogonal build axis. Construct with NewBoolean,
// NewEnumeration or NewIntegerRange; the zero value is not valid.
type Option struct {
	kind   Kind
	name   string
	values []string // Enumeration only
	min    int       // IntegerRange only
	max    int       // IntegerRange only
}

// NewBoolean creates a two-valued boolean option.
func NewBoolean(name string) Option {
	return Option{kind: Boolean, name: name}
}

// NewEnumeration creates an option selecting one of values. It returns
// ErrEmptyValues if values is empty.
func NewEnumeration(name string, values ...string) (Option, error) {
	if len(values) == 0 {
		return Option{}, fmt.Errorf("option %q: %w", name, ErrEmptyValues)
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return Option{kind: Enumeration, name: name, values: cp}, nil
}

// NewIntegerRange creates an option selecting an integer in [min, max].
// It returns ErrInvalidRange if min > max.
func NewIntegerRange(name string, min, max int) (Option, error) {
	if min > max {
		return Option{}, fmt.Errorf("option %q: %w", name, ErrInvalidRange)
	}
	return Option{kind: IntegerRange, name: name, min: min, max: max}, nil
}

// Kind reports the option's variant.
func (o Option) Kind() Kind { return o.kind }

// Name is the identifier written after the pragma keyword.
func (o Option) Name() string { return o.name }

// Values returns the enumeration's value list. It is nil for other kinds.
func (o Option) Values() []string { return o.values }

// Range returns the integer option's [min, max] bounds. It is (0, 0) for
// other kinds.
func (o Option) Range() (min, max int) { return o.min, o.max }

// ValueCount is the number of distinct values this option can take.
func (o Option) ValueCount() int {
	switch o.kind {
	case Boolean:
		return 2
	case Enumeration:
		return len(o.values)
	case IntegerRange:
		return o.max - o.min + 1
	default:
		return 0
	}
}

// KeyLength is the number of low bits this option contributes to a
// permutation key: ceil(log2(ValueCount())), which is 0 for a
// single-valued option.
func (o Option) KeyLength() int {
	n := o.ValueCount()
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// IsValueExplicit reports whether this option's macro emission includes
// an explicit value macro (Enumeration, IntegerRange) as opposed to only
// a flag macro (Boolean). DefinedValues and header.Entries apply the same
// Boolean versus Enumeration/IntegerRange split by dispatching on Kind.
func (o Option) IsValueExplicit() bool {
	return o.kind != Boolean
}

// DefinedValues returns the macros emitted when this option is set to
// the value at the given index. index must be in [0, ValueCount()).
func (o Option) DefinedValues(index int) []Define {
	switch o.kind {
	case Boolean:
		if index == 0 {
			return nil
		}
		return []Define{{Name: o.name, Value: "1"}}
	case Enumeration:
		v := o.values[index]
		return []Define{
			{Name: o.name + v, Value: "1"},
			{Name: o.name, Value: v},
		}
	case IntegerRange:
		v := strconv.Itoa(o.min + index)
		return []Define{
			{Name: o.name + v, Value: "1"},
			{Name: o.name, Value: v},
		}
	default:
		return nil
	}
}

// ValueLabel returns the display name of the value at index, used by the
// header generator to derive an identifier suffix (e.g. "ModeB" or
// "Fast"). For Boolean it is just the option name.
func (o Option) ValueLabel(index int) string {
	switch o.kind {
	case Boolean:
		return o.name
	case Enumeration:
		return o.name + o.values[index]
	case IntegerRange:
		return o.name + strconv.Itoa(o.min+index)
	default:
		return ""
	}
}
