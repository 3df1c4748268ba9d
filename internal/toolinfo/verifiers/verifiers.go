// Package verifiers provides the tool adapters for the verifiers that
// MetaVal can wrap, and assembles them into the default registry.
package verifiers

import (
	"fmt"

	"veribench/internal/result"
	"veribench/internal/toolinfo"
)

// Builtin returns a registry with every supported wrapped verifier.
// CPAchecker is registered twice: once as the standalone release and once
// as the MetaVal-bundled build (same adapter, different tool directory).
func Builtin() *toolinfo.Registry {
	reg := toolinfo.NewRegistry()
	reg.MustRegister("cpachecker", &CPAchecker{})
	reg.MustRegister("cpachecker-metaval", &CPAchecker{})
	reg.MustRegister("esbmc", &ESBMC{})
	reg.MustRegister("symbiotic", &Symbiotic{})
	reg.MustRegister("yogar-cbmc", &YogarCBMC{})
	reg.MustRegister("ultimateautomizer", &UAutomizer{})
	return reg
}

// fallbackVerdict classifies a run that produced no recognizable output.
func fallbackVerdict(run toolinfo.Run) string {
	switch {
	case run.IsTimeout:
		return result.Timeout
	case run.Signal != 0:
		return result.ErrorWith(fmt.Sprintf("killed by signal %d", run.Signal))
	case run.ExitCode != 0:
		return result.ErrorWith(fmt.Sprintf("returned %d", run.ExitCode))
	default:
		return result.Unknown
	}
}
