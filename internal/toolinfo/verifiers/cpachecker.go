package verifiers

import (
	"strings"

	"veribench/internal/result"
	"veribench/internal/toolinfo"
)

// CPAchecker is the adapter for CPAchecker, invoked through its cpa.sh
// launcher script. The verdict is taken from the "Verification result:"
// line of the tool output.
type CPAchecker struct{}

func (c *CPAchecker) Name() string { return "CPAchecker" }

func (c *CPAchecker) Executable() (string, error) {
	return toolinfo.FindExecutable("scripts/cpa.sh")
}

func (c *CPAchecker) Version(executable string) (string, error) {
	return toolinfo.VersionFromTool(executable, "-version")
}

func (c *CPAchecker) Cmdline(executable string, options []string, tasks []string, propertyfile string, limits toolinfo.RunLimits) ([]string, error) {
	argv := []string{executable}
	argv = append(argv, options...)
	if propertyfile != "" {
		argv = append(argv, "-spec", propertyfile)
	}
	return append(argv, tasks...), nil
}

func (c *CPAchecker) DetermineResult(run toolinfo.Run) string {
	for _, line := range run.Output {
		rest, found := strings.CutPrefix(strings.TrimSpace(line), "Verification result: ")
		if !found {
			continue
		}
		switch {
		case strings.HasPrefix(rest, "TRUE"):
			return result.True
		case strings.HasPrefix(rest, "FALSE"):
			// e.g. "FALSE. Property violation (valid-deref) found by ..."
			if start := strings.Index(rest, "("); start >= 0 {
				if end := strings.Index(rest[start:], ")"); end > 0 {
					return result.FalseWith(rest[start+1 : start+end])
				}
			}
			return result.False
		case strings.HasPrefix(rest, "UNKNOWN"):
			return result.Unknown
		}
	}
	return fallbackVerdict(run)
}
