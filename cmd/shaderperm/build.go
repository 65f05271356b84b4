package main

import (
	"context"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/shaderperm/build"
	"github.com/gogpu/shaderperm/codec"
	"github.com/gogpu/shaderperm/compiler"
	"github.com/gogpu/shaderperm/container"
	"github.com/gogpu/shaderperm/header"
	"github.com/gogpu/shaderperm/internal/logging"
	"github.com/gogpu/shaderperm/shaderspec"
)

type config struct {
	input        string
	output       string
	header       string
	namespace    string
	optLevel     int
	debug        bool
	stripDebug   bool
	waitDebugger bool
}

// run parses the source, skips the build entirely if every requested
// output is already newer than the source's dependency closure, drives
// the compilation, and writes whichever of the container, header and
// debug sidecar were requested.
func run(ctx context.Context, cfg config) error {
	spec, err := shaderspec.Parse(cfg.input)
	if err != nil {
		return err
	}

	if upToDate(spec, cfg) {
		logging.Logger().Info("outputs up to date, skipping build", "input", cfg.input)
		return nil
	}

	namespace := spec.Namespace
	if namespace == "" {
		namespace = cfg.namespace
	}

	// Binding to a real external compiler is out of scope for this
	// module (see compiler.Compiler's doc comment); the CLI drives the
	// deterministic Fake so the rest of the pipeline — permutation,
	// container, header, sidecar — is fully exercised end to end.
	driver := build.NewDriver(&compiler.Fake{EmitDebugSymbols: cfg.debug || cfg.stripDebug},
		build.WithDebugSymbols(cfg.debug || cfg.stripDebug, cfg.stripDebug),
		build.WithOptimizationLevel(cfg.optLevel),
	)

	variants, err := driver.Compile(ctx, spec)
	if err != nil {
		return err
	}

	if cfg.output != "" {
		if err := writeContainer(cfg.output, spec, variants); err != nil {
			return err
		}
	}

	if cfg.header != "" {
		if err := writeHeader(cfg.header, spec, namespace); err != nil {
			return err
		}
	}

	if cfg.stripDebug {
		if err := writeDebugSidecar(cfg, variants); err != nil {
			return err
		}
	}

	return nil
}

func upToDate(spec *shaderspec.Spec, cfg config) bool {
	check := func(path string) bool {
		if path == "" {
			return true
		}
		info, err := os.Stat(path)
		if err != nil {
			return false
		}
		return info.ModTime().After(spec.InputTimestamp)
	}
	if cfg.output == "" && cfg.header == "" {
		return false
	}
	return check(cfg.output) && check(cfg.header)
}

func writeContainer(path string, spec *shaderspec.Spec, variants []build.Variant) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := container.NewWriter(codec.Flate{})
	return w.WriteContainer(f, spec.Options, variants)
}

func writeHeader(path string, spec *shaderspec.Spec, namespace string) error {
	stem := strings.TrimSuffix(filepath.Base(spec.Path), filepath.Ext(spec.Path))
	text := header.Generate(stem, namespace, spec.Options)
	return os.WriteFile(path, []byte(text), 0o644)
}

// writeDebugSidecar writes one file per variant with a non-empty PDB
// name into ShaderPdb/, adjacent to whichever output path was
// requested. Two variants resolving to the same PDB name are expected
// to carry identical content (the compiler names debug files
// deterministically); when they don't, the first write wins and a
// warning is logged instead of silently overwriting the existing file.
func writeDebugSidecar(cfg config, variants []build.Variant) error {
	base := cfg.output
	if base == "" {
		base = cfg.header
	}
	dir := filepath.Join(filepath.Dir(base), "ShaderPdb")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	seen := make(map[string]uint64)
	for _, v := range variants {
		if v.PDBName == "" || len(v.PDBBytes) == 0 {
			continue
		}

		h := fnv.New64a()
		h.Write(v.PDBBytes)
		sum := h.Sum64()

		if prevSum, ok := seen[v.PDBName]; ok {
			if prevSum != sum {
				logging.Logger().Warn("duplicate PDB name with differing content, keeping first",
					"name", v.PDBName, "key", v.Key)
			}
			continue
		}
		seen[v.PDBName] = sum

		if err := os.WriteFile(filepath.Join(dir, v.PDBName), v.PDBBytes, 0o644); err != nil {
			return err
		}
	}
	return nil
}
