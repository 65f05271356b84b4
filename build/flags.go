package build

import "github.com/gogpu/shaderperm/compiler"

// translateFlags turns the driver's Debug/OptimizationLevel options into
// the external compiler's flag bits. OptimizationLevel -1 means "skip
// optimization entirely".
func translateFlags(o Options) compiler.Flags {
	var f compiler.Flags
	if o.Debug {
		f |= compiler.FlagDebug
	}
	switch o.OptimizationLevel {
	case -1:
		f |= compiler.FlagSkipOptimization
	case 0:
		f |= compiler.FlagOptimizationLevel0
	case 1:
		f |= compiler.FlagOptimizationLevel1
	case 2:
		f |= compiler.FlagOptimizationLevel2
	case 3:
		f |= compiler.FlagOptimizationLevel3
	}
	return f
}
