package toolinfo

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"veribench/internal/logging"
)

// FindExecutable resolves the launcher for a tool. The name is looked up in
// the current directory first (tool archives unpack their launcher next to
// the tool directories), then on PATH.
func FindExecutable(name string) (string, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
		return name, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("could not find executable %q: %w", name, err)
	}
	return path, nil
}

// FindExecutableIn resolves the launcher relative to a base directory,
// falling back to PATH.
func FindExecutableIn(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
		return candidate, nil
	}
	return FindExecutable(name)
}

// VersionFromTool invokes the launcher with a version flag and returns the
// first line of standard output, trimmed. This is the process-execution
// collaborator used by adapter Version implementations.
func VersionFromTool(executable string, versionFlag string) (string, error) {
	logging.ToolsDebug("Querying version: %s %s", executable, versionFlag)

	out, err := exec.Command(executable, versionFlag).Output()
	if err != nil && len(out) == 0 {
		return "", fmt.Errorf("could not query version of %s: %w", executable, err)
	}

	line, _, _ := strings.Cut(string(out), "\n")
	version := strings.TrimSpace(line)
	if version == "" {
		return "", fmt.Errorf("%s printed no version", executable)
	}
	return version, nil
}
