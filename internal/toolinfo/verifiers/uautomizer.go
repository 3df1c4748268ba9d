package verifiers

import (
	"strings"

	"veribench/internal/result"
	"veribench/internal/toolinfo"
)

// UAutomizer is the adapter for Ultimate Automizer.
type UAutomizer struct{}

func (u *UAutomizer) Name() string { return "ULTIMATE Automizer" }

func (u *UAutomizer) Executable() (string, error) {
	return toolinfo.FindExecutable("Ultimate.py")
}

func (u *UAutomizer) Version(executable string) (string, error) {
	return toolinfo.VersionFromTool(executable, "--version")
}

func (u *UAutomizer) Cmdline(executable string, options []string, tasks []string, propertyfile string, limits toolinfo.RunLimits) ([]string, error) {
	argv := []string{executable}
	if propertyfile != "" {
		argv = append(argv, "--spec", propertyfile)
	}
	argv = append(argv, options...)
	if len(tasks) > 0 {
		argv = append(argv, "--file")
		argv = append(argv, tasks...)
	}
	return argv, nil
}

func (u *UAutomizer) DetermineResult(run toolinfo.Run) string {
	for _, line := range run.Output {
		verdict, found := strings.CutPrefix(strings.TrimSpace(line), "RESULT: Ultimate proved your program to be ")
		if !found {
			continue
		}
		switch {
		case strings.HasPrefix(verdict, "correct"):
			return result.True
		case strings.HasPrefix(verdict, "incorrect"):
			return result.False
		}
	}
	for _, line := range run.Output {
		if strings.Contains(line, "RESULT: Ultimate could not prove your program") {
			return result.Unknown
		}
	}
	return fallbackVerdict(run)
}
