// Package metaval implements the tool adapter for MetaVal, a witness-based
// validator that wraps another verifier. MetaVal instruments the input
// program with a witness and hands the result to a wrapped verifier chosen
// per run, so this adapter delegates most of its work to the adapter of the
// wrapped tool.
package metaval

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"veribench/internal/logging"
	"veribench/internal/toolinfo"
)

// VerdictError is the sentinel verdict reported when result classification
// is requested before any wrapped tool was resolved.
const VerdictError = "METAVAL ERROR"

// reportFile is the instrumented program MetaVal writes; the wrapped
// verifier runs on it instead of the original task.
const reportFile = "output/ARG.c"

// toolDirs maps wrapped-tool identifiers to their on-disk directory names.
// The directory names must match the unpacked tool archives exactly.
var toolDirs = map[string]string{
	"cpachecker-metaval": "CPAchecker",
	"cpachecker":         "CPAchecker-1.7-svn 29852-unix",
	"esbmc":              "esbmc",
	"symbiotic":          "symbiotic",
	"yogar-cbmc":         "yogar-cbmc",
	"ultimateautomizer":  "UAutomizer-linux",
}

// Adapter errors.
var (
	ErrMissingWitness    = errors.New("missing required option --metavalWitness")
	ErrMissingVerifier   = errors.New("missing required option --metaval")
	ErrMixedWrappedTools = errors.New("metaval is called with mixed wrapped tools")
	ErrUnknownVerifier   = errors.New("unknown wrapped tool")
)

// Tool is the MetaVal adapter. The wrapped verifier is resolved from the
// registry on the first Cmdline call and is immutable afterwards; asking
// for a different verifier later in the same run is a fatal usage error.
//
// The mutex serializes both the one-shot resolution and every working
// directory change, since the working directory is process-wide state.
type Tool struct {
	mu       sync.Mutex
	registry *toolinfo.Registry

	// Set once under mu on the first successful Cmdline call.
	verifier string
	wrapped  toolinfo.Tool

	// fatal terminates the process with a diagnostic. Overridable so the
	// fatal paths are testable.
	fatal func(format string, args ...any)
}

// New creates the MetaVal adapter resolving wrapped tools from reg.
func New(reg *toolinfo.Registry) *Tool {
	return &Tool{
		registry: reg,
		fatal:    defaultFatal,
	}
}

func defaultFatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// Name returns the adapter identifier.
func (t *Tool) Name() string { return "metaval" }

// Executable locates the MetaVal launcher script.
func (t *Tool) Executable() (string, error) {
	return toolinfo.FindExecutable("metaval.sh")
}

// Version returns the first line of `metaval.sh --version`.
func (t *Tool) Version(executable string) (string, error) {
	return toolinfo.VersionFromTool(executable, "--version")
}

// RequiredPaths lists the tool directories that must exist before a run.
func (t *Tool) RequiredPaths() []string {
	paths := make([]string, 0, len(toolDirs))
	for _, dir := range toolDirs {
		paths = append(paths, dir)
	}
	sort.Strings(paths)
	return paths
}

// options holds the adapter-specific flags parsed out of the runner-supplied
// option list.
type options struct {
	witness        string
	verifier       string
	additionalPath string
	witnessType    string
}

// parseOptions extracts the MetaVal flags from opts and returns the
// remainder untouched. Both "--flag value" and "--flag=value" forms are
// accepted.
func parseOptions(opts []string) (options, []string, error) {
	var parsed options
	rest := make([]string, 0, len(opts))

	take := func(target *string, i int) (int, error) {
		arg := opts[i]
		if eq := strings.IndexByte(arg, '='); eq >= 0 {
			*target = arg[eq+1:]
			return i, nil
		}
		if i+1 >= len(opts) {
			return i, fmt.Errorf("option %s requires a value", arg)
		}
		*target = opts[i+1]
		return i + 1, nil
	}

	for i := 0; i < len(opts); i++ {
		arg := opts[i]
		name, _, _ := strings.Cut(arg, "=")

		var err error
		switch name {
		case "--metavalWitness":
			i, err = take(&parsed.witness, i)
		case "--metaval":
			i, err = take(&parsed.verifier, i)
		case "--metavalAdditionalPATH":
			i, err = take(&parsed.additionalPath, i)
		case "--metavalWitnessType":
			i, err = take(&parsed.witnessType, i)
		default:
			rest = append(rest, arg)
		}
		if err != nil {
			return options{}, nil, err
		}
	}

	if parsed.witness == "" {
		return options{}, nil, ErrMissingWitness
	}
	if parsed.verifier == "" {
		return options{}, nil, ErrMissingVerifier
	}
	return parsed, rest, nil
}

// resolve records the wrapped verifier on first use and enforces that every
// later call names the same one.
func (t *Tool) resolve(verifier string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.wrapped == nil {
		wrapped, err := t.registry.Lookup(verifier)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownVerifier, verifier)
		}
		t.verifier = verifier
		t.wrapped = wrapped
		logging.Tools("metaval resolved wrapped tool %q", verifier)
		return nil
	}
	if verifier != t.verifier {
		return ErrMixedWrappedTools
	}
	return nil
}

// inToolDirectory runs fn with the working directory set to the wrapped
// tool's directory, restoring the previous directory afterwards on every
// path. The directory change is serialized under the adapter mutex because
// the working directory is shared process state.
func (t *Tool) inToolDirectory(fn func(oldcwd string) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	oldcwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not determine working directory: %w", err)
	}
	dir, ok := toolDirs[t.verifier]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVerifier, t.verifier)
	}
	if err := os.Chdir(filepath.Join(oldcwd, dir)); err != nil {
		return fmt.Errorf("could not enter tool directory: %w", err)
	}
	defer func() {
		if err := os.Chdir(oldcwd); err != nil {
			logging.ToolsWarn("could not restore working directory %s: %v", oldcwd, err)
		}
	}()

	return fn(oldcwd)
}

// Cmdline builds the MetaVal argument vector. It parses the adapter-specific
// options, resolves the wrapped tool, asks the wrapped adapter for its own
// argument vector from inside its tool directory, and assembles the final
// command line. Missing required options, an unknown verifier, and mixed
// verifiers across calls all terminate the process with a diagnostic.
func (t *Tool) Cmdline(executable string, opts []string, tasks []string, propertyfile string, limits toolinfo.RunLimits) ([]string, error) {
	parsed, rest, err := parseOptions(opts)
	if err != nil {
		t.fatal("metaval: %v", err)
		return nil, err
	}
	verifier := strings.ToLower(parsed.verifier)

	if err := t.resolve(verifier); err != nil {
		t.fatal("metaval: %v", err)
		return nil, err
	}

	var wrappedArgs []string
	err = t.inToolDirectory(func(oldcwd string) error {
		wrappedExe, err := t.wrapped.Executable()
		if err != nil {
			return fmt.Errorf("could not find wrapped tool executable: %w", err)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		task, err := filepath.Rel(cwd, filepath.Join(oldcwd, reportFile))
		if err != nil {
			return err
		}
		prop := propertyfile
		if prop != "" {
			prop, err = filepath.Rel(cwd, filepath.Join(oldcwd, propertyfile))
			if err != nil {
				return err
			}
		}

		wrappedArgs, err = t.wrapped.Cmdline(wrappedExe, rest, []string{task}, prop, limits)
		return err
	})
	if err != nil {
		return nil, err
	}

	argv := []string{executable, "--verifier", toolDirs[verifier], "--witness", parsed.witness}
	if parsed.additionalPath != "" {
		argv = append(argv, "--additionalPATH", parsed.additionalPath)
	}
	if parsed.witnessType != "" {
		argv = append(argv, "--witnessType", parsed.witnessType)
	}
	argv = append(argv, tasks...)
	argv = append(argv, "--")
	argv = append(argv, wrappedArgs...)
	return argv, nil
}

// DetermineResult delegates verdict classification to the wrapped tool from
// inside its directory. If no wrapped tool was ever resolved the sentinel
// error verdict is returned without touching the working directory.
func (t *Tool) DetermineResult(run toolinfo.Run) string {
	t.mu.Lock()
	wrapped := t.wrapped
	t.mu.Unlock()

	if wrapped == nil {
		return VerdictError
	}

	var verdict string
	err := t.inToolDirectory(func(string) error {
		verdict = wrapped.DetermineResult(run)
		return nil
	})
	if err != nil {
		logging.ToolsWarn("metaval could not classify result: %v", err)
		return VerdictError
	}
	return verdict
}
