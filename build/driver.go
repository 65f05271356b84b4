// Package build implements the CompilationDriver: it expands a
// shaderspec.Spec's option list into its full permutation set, runs one
// external compiler invocation per permutation across a worker pool, and
// reports either the complete set of compiled Variants or a group-level
// failure — never a partial result.
package build

import (
	"context"
	"sync/atomic"

	"github.com/gogpu/shaderperm/compiler"
	"github.com/gogpu/shaderperm/internal/logging"
	"github.com/gogpu/shaderperm/internal/parallel"
	"github.com/gogpu/shaderperm/option"
	"github.com/gogpu/shaderperm/shaderspec"
)

// Driver runs one shader's full permutation set through an external
// Compiler.
type Driver struct {
	compiler compiler.Compiler
	opts     Options
}

// NewDriver creates a Driver bound to the given Compiler collaborator.
func NewDriver(c compiler.Compiler, opts ...Option) *Driver {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &Driver{compiler: c, opts: o}
}

// Compile runs every permutation of spec's option list and returns the
// complete set of compiled Variants in §4.1 emission order. If any
// permutation fails, Compile still runs every other permutation to
// maximize diagnostic output, then returns a *GroupFailureError and a
// nil Variant slice — never a partial result.
func (d *Driver) Compile(ctx context.Context, spec *shaderspec.Spec) ([]Variant, error) {
	perms := option.Permutations(spec.Options)
	flags := translateFlags(d.opts)
	diags := newDiagnosticSet()

	results := make([]Variant, len(perms))
	var failedCount atomic.Int64

	pool := parallel.NewWorkerPool(d.opts.Workers)
	defer pool.Close()

	work := make([]func(), len(perms))
	for i, perm := range perms {
		i, perm := i, perm
		work[i] = func() {
			macros := make([]compiler.Macro, 0, len(perm.Defines)+1)
			for _, def := range perm.Defines {
				macros = append(macros, compiler.Macro{Name: def.Name, Value: def.Value})
			}
			macros = append(macros, compiler.Macro{}) // terminating sentinel

			logging.Logger().Debug("compiling permutation",
				"path", spec.Path, "key", perm.Key, "target", spec.Target, "entry", spec.Entry)

			res, err := d.compiler.Compile(ctx, spec.Path, spec.Entry, spec.Target, macros, flags)
			if err != nil {
				diags.addText(err.Error())
				failedCount.Add(1)
				results[i] = Variant{Key: perm.Key}
				return
			}
			diags.addText(res.Diagnostics)

			if !res.Success {
				failedCount.Add(1)
				results[i] = Variant{Key: perm.Key}
				return
			}

			variant := Variant{Key: perm.Key, Bytecode: res.Bytecode}
			if d.opts.ExternalDebugSymbols {
				if name, ok := d.compiler.ExtractDebugName(res.Bytecode); ok {
					variant.PDBName = name
				}
				if blob, ok := d.compiler.ExtractDebugBlob(res.Bytecode); ok {
					variant.PDBBytes = blob
				}
				variant.Bytecode = d.compiler.StripDebugInfo(res.Bytecode)
			}
			results[i] = variant
		}
	}

	pool.ExecuteAll(work)

	for _, line := range diags.lines() {
		logging.Logger().Warn("compiler diagnostic", "message", line)
	}

	if failed := failedCount.Load(); failed > 0 {
		return nil, &GroupFailureError{Total: len(perms), Failed: int(failed)}
	}
	return results, nil
}
