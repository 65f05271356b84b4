// Package shaderspec parses the small pragma language embedded in a
// shader source file — target profile, entry point, namespace and the
// orthogonal option declarations — and resolves the file's transitive
// #include dependency closure.
package shaderspec

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gogpu/shaderperm/option"
)

// DefaultEntry is used when a source file has no "#pragma entry" line.
const DefaultEntry = "main"

// Spec is the parsed, immutable description of one shader source file.
type Spec struct {
	Path      string
	Target    string
	Entry     string
	Namespace string // empty if the source has no "#pragma namespace"

	Options []option.Option

	// Dependencies is the transitive closure of quoted #include paths,
	// normalized and de-duplicated, including Path itself.
	Dependencies []string

	// InputTimestamp is the newest modification time across Dependencies.
	InputTimestamp time.Time
}

var (
	pragmaRe = regexp.MustCompile(`^\s*#pragma\s+(target|entry|namespace|option)\s+(.+?)\s*$`)
	includeRe = regexp.MustCompile(`^\s*#include\s+"([^"]+)"\s*$`)
)

// Parse reads path, extracts its pragma directives, resolves its
// transitive #include closure and computes the newest-input timestamp.
//
// Only path itself is scanned for target/entry/namespace/option pragmas;
// included files contribute to Dependencies and InputTimestamp but are
// not scanned for those pragmas, matching the original tool's
// single-file ShaderInfo::FromFile behavior.
func Parse(path string) (*Spec, error) {
	deps, err := resolveDependencies(path)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Path:         path,
		Entry:        DefaultEntry,
		Dependencies: deps,
	}

	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		m := pragmaRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kind, rest := m[1], m[2]
		switch kind {
		case "target":
			spec.Target = rest
		case "entry":
			spec.Entry = rest
		case "namespace":
			spec.Namespace = rest
		case "option":
			opt, err := parseOptionDecl(rest)
			if err != nil {
				return nil, &MalformedOptionError{Path: path, Text: rest}
			}
			spec.Options = append(spec.Options, opt)
		}
	}

	newest := time.Time{}
	for _, dep := range deps {
		info, err := os.Stat(dep)
		if err != nil {
			return nil, &SourceNotFoundError{Path: dep, Err: err}
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	spec.InputTimestamp = newest

	return spec, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceNotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &SourceNotFoundError{Path: path, Err: err}
	}
	return lines, nil
}

// resolveDependencies performs a BFS over #include "..." lines, resolving
// each path relative to the containing file's directory, normalizing and
// de-duplicating by normalized path. The root file is included.
func resolveDependencies(root string) ([]string, error) {
	rootAbs, err := normalize(root)
	if err != nil {
		return nil, &SourceNotFoundError{Path: root, Err: err}
	}

	visited := map[string]bool{rootAbs: true}
	order := []string{rootAbs}
	queue := []string{rootAbs}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		lines, err := readLines(cur)
		if err != nil {
			return nil, err
		}

		dir := filepath.Dir(cur)
		for _, line := range lines {
			m := includeRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			incPath, err := normalize(filepath.Join(dir, m[1]))
			if err != nil {
				return nil, &SourceNotFoundError{Path: m[1], Err: err}
			}
			if visited[incPath] {
				continue
			}
			visited[incPath] = true
			order = append(order, incPath)
			queue = append(queue, incPath)
		}
	}
	return order, nil
}

func normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
