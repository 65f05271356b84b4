package build

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// suppressedPragmaWarning matches the one compiler warning every
// permutation is expected to produce: the external compiler does not
// know our "target"/"namespace"/"entry"/"option" pragmas and warns about
// each one. These are expected noise, not diagnostics a user needs to
// see.
var suppressedPragmaWarning = regexp.MustCompile(`: warning X3568: '(target|namespace|entry|option)' : unknown pragma ignored`)

// diagnosticSet collects the distinct, non-suppressed diagnostic lines
// produced across an entire group invocation. Insertion is guarded by a
// single mutex — this is the only shared mutable state the compilation
// phase has; every worker's Variant otherwise writes to its own output
// slot.
type diagnosticSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newDiagnosticSet() *diagnosticSet {
	return &diagnosticSet{seen: make(map[string]struct{})}
}

// addText splits text on newlines, drops suppressed lines, and records
// the rest.
func (d *diagnosticSet) addText(text string) {
	if text == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || suppressedPragmaWarning.MatchString(line) {
			continue
		}
		d.seen[line] = struct{}{}
	}
}

// lines returns the collected lines sorted with a locale-aware collator
// so output order is stable across platforms and goroutine schedules,
// rather than depending on Go's unordered map iteration.
func (d *diagnosticSet) lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, 0, len(d.seen))
	for line := range d.seen {
		out = append(out, line)
	}

	col := collate.New(language.Und)
	col.SortStrings(out)
	return out
}
