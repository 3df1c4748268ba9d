package verifiers

import (
	"strings"

	"veribench/internal/result"
	"veribench/internal/toolinfo"
)

// ESBMC is the adapter for ESBMC, invoked through its wrapper script.
type ESBMC struct{}

func (e *ESBMC) Name() string { return "ESBMC" }

func (e *ESBMC) Executable() (string, error) {
	return toolinfo.FindExecutable("esbmc-wrapper.py")
}

func (e *ESBMC) Version(executable string) (string, error) {
	return toolinfo.VersionFromTool(executable, "-v")
}

func (e *ESBMC) Cmdline(executable string, options []string, tasks []string, propertyfile string, limits toolinfo.RunLimits) ([]string, error) {
	argv := []string{executable}
	if propertyfile != "" {
		argv = append(argv, "-p", propertyfile)
	}
	argv = append(argv, options...)
	return append(argv, tasks...), nil
}

func (e *ESBMC) DetermineResult(run toolinfo.Run) string {
	for _, line := range run.Output {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "VERIFICATION SUCCESSFUL"):
			return result.True
		case strings.Contains(line, "VERIFICATION FAILED"):
			return result.False
		case strings.Contains(line, "VERIFICATION UNKNOWN"):
			return result.Unknown
		}
	}
	return fallbackVerdict(run)
}
