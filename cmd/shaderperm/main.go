// Command shaderperm compiles every permutation of one annotated shader
// source into a CSG3 container plus a companion header, driving the
// deterministic compiler.Fake once per permutation in parallel; it does
// not invoke a real external shader compiler.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/shaderperm/internal/logging"
)

func main() {
	if len(os.Args) == 1 {
		flag.Usage()
		os.Exit(0)
	}

	var cfg config
	flag.StringVar(&cfg.input, "i", "", "input source path (required)")
	flag.StringVar(&cfg.output, "o", "", "output container path")
	flag.StringVar(&cfg.header, "h", "", "output header path")
	flag.StringVar(&cfg.namespace, "n", "", "default namespace if source omits one")
	flag.IntVar(&cfg.optLevel, "p", 2, "optimisation level, -1..3")
	flag.BoolVar(&cfg.debug, "d", false, "emit debug symbols")
	flag.BoolVar(&cfg.stripDebug, "x", false, "strip debug symbols into a sidecar")
	flag.BoolVar(&cfg.waitDebugger, "t", false, "wait for a debugger signal before running")
	flag.Parse()

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if cfg.input == "" {
		fmt.Fprintln(os.Stderr, "shaderperm: -i is required")
		os.Exit(-1)
	}

	if cfg.waitDebugger {
		waitForDebugger()
	}

	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, "shaderperm:", err)
		os.Exit(-1)
	}
	os.Exit(0)
}

// waitForDebugger blocks until the file named by the
// SHADERPERM_DEBUGGER_SIGNAL environment variable exists, polling at a
// coarse interval, and returns at once when that variable is unset. It
// is a test hook, never enabled
// outside an interactive debugging session; most invocations never call
// it at all since -t defaults to off.
func waitForDebugger() {
	signal := os.Getenv("SHADERPERM_DEBUGGER_SIGNAL")
	if signal == "" {
		return
	}
	for {
		if _, err := os.Stat(signal); err == nil {
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}
