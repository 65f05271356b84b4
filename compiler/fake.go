package compiler

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
)

// Fake is a deterministic Compiler substitute for tests: it never shells
// out, and its bytecode is hash(source, entry, target, macros, flags),
// so a round-trip test can recompute and compare the expected blob
// without a real compiler installed.
//
// Grounded on the design note that a test compiler should emit
// hash(source, defines) as bytecode rather than a fixed stub, so
// distinct permutations produce distinct, reproducible bytecode.
type Fake struct {
	// FailMacro, if set, makes Compile report Success=false whenever the
	// macro list contains a macro with this name, simulating a
	// permutation that fails to compile.
	FailMacro string

	// ExtraDiagnostic, if set, is appended to every Result's
	// Diagnostics, letting tests exercise the dedup path.
	ExtraDiagnostic string

	// EmitDebugSymbols makes Compile attach a deterministic PDB name and
	// blob to every successful Result's bytecode (retrievable via
	// ExtractDebugName/ExtractDebugBlob).
	EmitDebugSymbols bool
}

const fakeDebugMarker = "\x00PDB:"

// Compile implements Compiler.
func (f *Fake) Compile(_ context.Context, sourcePath, entry, target string, macros []Macro, flags Flags) (Result, error) {
	for _, m := range macros {
		if f.FailMacro != "" && m.Name == f.FailMacro {
			diag := fmt.Sprintf("%s: error X1234: simulated failure for %s", sourcePath, f.FailMacro)
			if f.ExtraDiagnostic != "" {
				diag += "\n" + f.ExtraDiagnostic
			}
			return Result{Success: false, Diagnostics: diag}, nil
		}
	}

	sum := fnv.New64a()
	fmt.Fprintf(sum, "%s|%s|%s|%d|", sourcePath, entry, target, flags)
	sorted := append([]Macro(nil), macros...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, m := range sorted {
		fmt.Fprintf(sum, "%s=%s;", m.Name, m.Value)
	}
	bytecode := sum.Sum(nil)

	if f.EmitDebugSymbols {
		name := fmt.Sprintf("%x.pdb", bytecode)
		bytecode = append(bytecode, []byte(fakeDebugMarker+name)...)
	}

	return Result{Success: true, Bytecode: bytecode, Diagnostics: f.ExtraDiagnostic}, nil
}

// ExtractDebugName implements Compiler.
func (f *Fake) ExtractDebugName(bytecode []byte) (string, bool) {
	idx, ok := findDebugMarker(bytecode)
	if !ok {
		return "", false
	}
	return string(bytecode[idx+len(fakeDebugMarker):]), true
}

// ExtractDebugBlob implements Compiler.
func (f *Fake) ExtractDebugBlob(bytecode []byte) ([]byte, bool) {
	idx, ok := findDebugMarker(bytecode)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), bytecode[idx+len(fakeDebugMarker):]...), true
}

// StripDebugInfo implements Compiler.
func (f *Fake) StripDebugInfo(bytecode []byte) []byte {
	idx, ok := findDebugMarker(bytecode)
	if !ok {
		return bytecode
	}
	return append([]byte(nil), bytecode[:idx]...)
}

func findDebugMarker(bytecode []byte) (int, bool) {
	marker := []byte(fakeDebugMarker)
	for i := 0; i+len(marker) <= len(bytecode); i++ {
		match := true
		for j, b := range marker {
			if bytecode[i+j] != b {
				match = false
				break
			}
		}
		if match {
			return i, true
		}
	}
	return 0, false
}
