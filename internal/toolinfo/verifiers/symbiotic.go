package verifiers

import (
	"strings"

	"veribench/internal/result"
	"veribench/internal/toolinfo"
)

// Symbiotic is the adapter for Symbiotic. The verdict is reported on a
// "RESULT:" line, with false verdicts qualified by the violated property,
// e.g. "RESULT: false(valid-deref)".
type Symbiotic struct{}

func (s *Symbiotic) Name() string { return "Symbiotic" }

func (s *Symbiotic) Executable() (string, error) {
	return toolinfo.FindExecutable("bin/symbiotic")
}

func (s *Symbiotic) Version(executable string) (string, error) {
	return toolinfo.VersionFromTool(executable, "--version")
}

func (s *Symbiotic) Cmdline(executable string, options []string, tasks []string, propertyfile string, limits toolinfo.RunLimits) ([]string, error) {
	argv := []string{executable}
	if propertyfile != "" {
		argv = append(argv, "--prp="+propertyfile)
	}
	argv = append(argv, options...)
	return append(argv, tasks...), nil
}

func (s *Symbiotic) DetermineResult(run toolinfo.Run) string {
	for i := len(run.Output) - 1; i >= 0; i-- {
		verdict, found := strings.CutPrefix(strings.TrimSpace(run.Output[i]), "RESULT: ")
		if !found {
			continue
		}
		switch {
		case verdict == "true":
			return result.True
		case verdict == "unknown":
			return result.Unknown
		case verdict == "false" || strings.HasPrefix(verdict, "false("):
			return verdict
		}
	}
	return fallbackVerdict(run)
}
