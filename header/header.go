// Package header generates the text companion to a compiled permutation
// group: an integer-backed flags enumeration client code uses to build a
// variant key by OR-ing together the entries for the options it wants
// set, without depending on the option model at runtime.
package header

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderperm/option"
)

// DefaultNamespace is used when a source omits both a namespace pragma
// and a -n flag.
const DefaultNamespace = "Shaders"

// Entry is one named bit-pattern in the generated flags enumeration.
type Entry struct {
	Name  string
	Value uint64
}

// Entries derives the flags enumeration's entries from options, in
// declaration order: Boolean contributes one entry (its set value, index
// 1 — the unset state needs no name, it's the implicit Default), while
// Enumeration and IntegerRange contribute one entry per value including
// index 0, per each option's IsValueExplicit/ValueLabel contract.
func Entries(options []option.Option) []Entry {
	offsets := option.Offsets(options)

	var entries []Entry
	for i, o := range options {
		start := 0
		if o.Kind() == option.Boolean {
			start = 1
		}
		for idx := start; idx < o.ValueCount(); idx++ {
			entries = append(entries, Entry{
				Name:  o.ValueLabel(idx),
				Value: uint64(idx) << uint(offsets[i]),
			})
		}
	}
	return entries
}

// Generate renders the flags enumeration for stem (the source file's
// base name, without extension) and namespace as plain text. Calling
// Generate twice with the same stem, namespace and options byte-for-byte
// reproduces its output — the enumeration's identity is a pure function
// of its inputs.
func Generate(stem, namespace string, options []option.Option) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	scopes := strings.Split(namespace, ".")

	var b strings.Builder
	b.WriteString("// Code generated by shaderperm. DO NOT EDIT.\n\n")

	indent := ""
	for _, scope := range scopes {
		fmt.Fprintf(&b, "%snamespace %s {\n", indent, scope)
		indent += "    "
	}
	b.WriteString("\n")

	typeName := stem + "Flags"
	fmt.Fprintf(&b, "%senum class %s : unsigned long long {\n", indent, typeName)
	fmt.Fprintf(&b, "%s    Default = 0,\n", indent)
	for _, e := range Entries(options) {
		fmt.Fprintf(&b, "%s    %s = %d,\n", indent, e.Name, e.Value)
	}
	fmt.Fprintf(&b, "%s};\n\n", indent)

	for i := len(scopes) - 1; i >= 0; i-- {
		indent = indent[:len(indent)-4]
		fmt.Fprintf(&b, "%s} // namespace %s\n", indent, scopes[i])
	}

	return b.String()
}
