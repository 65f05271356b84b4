// Package compiler declares the external HLSL-style shader compiler
// collaborator as a pure interface: (source, entry, target, macros,
// flags) -> (bytecode, diagnostics, success), plus the two
// debug-symbol extraction operations the driver needs when stripping
// embedded PDB material. Binding this interface to a real compiler (a
// COM DXC/FXC invocation, a subprocess, …) is deliberately out of this
// module's scope; Fake below is the deterministic substitute used by
// tests and by build.Driver's own test suite.
package compiler

import "context"

// Macro is one preprocessor definition passed to the compiler, mirroring
// option.Define but kept as its own type so this package has no
// dependency on the permutation engine.
type Macro struct {
	Name  string
	Value string
}

// Flag bits the driver derives from build.Options before calling
// Compile. These stand in for the real compiler's own flag constants
// (e.g. D3DCOMPILE_DEBUG / D3DCOMPILE_OPTIMIZATION_LEVELn).
type Flags uint32

const (
	FlagDebug Flags = 1 << iota
	FlagSkipOptimization
	FlagOptimizationLevel0
	FlagOptimizationLevel1
	FlagOptimizationLevel2
	FlagOptimizationLevel3
)

// Result is the outcome of one Compile call.
type Result struct {
	Bytecode    []byte
	Diagnostics string
	Success     bool
}

// Compiler is the external shader compiler collaborator.
type Compiler interface {
	// Compile translates source at sourcePath, using entry point entry
	// targeting target, with the given macro list and flag bits, into a
	// bytecode blob. Compile itself never returns a non-nil error for a
	// compilation failure — that is reported via Result.Success and
	// Result.Diagnostics; a non-nil error indicates the collaborator
	// could not be invoked at all (e.g. the process failed to start).
	Compile(ctx context.Context, sourcePath, entry, target string, macros []Macro, flags Flags) (Result, error)

	// ExtractDebugName returns the debug-symbol file name embedded in a
	// compiled bytecode blob, if any.
	ExtractDebugName(bytecode []byte) (name string, ok bool)

	// ExtractDebugBlob returns the raw debug-symbol (PDB) bytes embedded
	// in a compiled bytecode blob, if any.
	ExtractDebugBlob(bytecode []byte) (blob []byte, ok bool)

	// StripDebugInfo returns bytecode with any embedded debug info
	// removed, for storage in the container once the PDB material has
	// been extracted into the sidecar.
	StripDebugInfo(bytecode []byte) []byte
}
