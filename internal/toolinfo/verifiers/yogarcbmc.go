package verifiers

import (
	"strings"

	"veribench/internal/result"
	"veribench/internal/toolinfo"
)

// YogarCBMC is the adapter for Yogar-CBMC, a bounded model checker for
// concurrent programs. The tool only checks reachability, so a failed
// verification always means a violated unreach-call property. It reads the
// property from the task directly; the propertyfile argument is ignored.
type YogarCBMC struct{}

func (y *YogarCBMC) Name() string { return "Yogar-CBMC" }

func (y *YogarCBMC) Executable() (string, error) {
	return toolinfo.FindExecutable("yogar-cbmc")
}

func (y *YogarCBMC) Version(executable string) (string, error) {
	return toolinfo.VersionFromTool(executable, "--version")
}

func (y *YogarCBMC) Cmdline(executable string, options []string, tasks []string, propertyfile string, limits toolinfo.RunLimits) ([]string, error) {
	argv := []string{executable}
	argv = append(argv, options...)
	return append(argv, tasks...), nil
}

func (y *YogarCBMC) DetermineResult(run toolinfo.Run) string {
	for _, line := range run.Output {
		switch {
		case strings.Contains(line, "VERIFICATION SUCCESSFUL"):
			return result.True
		case strings.Contains(line, "VERIFICATION FAILED"):
			return result.FalseWith("unreach-call")
		}
	}
	return fallbackVerdict(run)
}
