package metaval

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"veribench/internal/result"
	"veribench/internal/toolinfo"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeVerifier records how the metaval adapter drives a wrapped tool.
type fakeVerifier struct {
	mu           sync.Mutex
	cmdlineCalls int
	lastCwd      string
	lastOptions  []string
	lastTask     string
	lastProp     string
	lastLimits   toolinfo.RunLimits
	argv         []string
	cmdlineErr   error
	verdict      string
}

func (f *fakeVerifier) Name() string { return "fake" }

func (f *fakeVerifier) Executable() (string, error) { return "./fake-verifier", nil }

func (f *fakeVerifier) Version(string) (string, error) { return "fake 1.0", nil }

func (f *fakeVerifier) Cmdline(executable string, options []string, tasks []string, propertyfile string, limits toolinfo.RunLimits) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cmdlineCalls++
	f.lastCwd, _ = os.Getwd()
	f.lastOptions = options
	if len(tasks) > 0 {
		f.lastTask = tasks[0]
	}
	f.lastProp = propertyfile
	f.lastLimits = limits

	if f.cmdlineErr != nil {
		return nil, f.cmdlineErr
	}
	if f.argv != nil {
		return f.argv, nil
	}
	argv := append([]string{executable}, options...)
	return append(argv, tasks...), nil
}

func (f *fakeVerifier) DetermineResult(run toolinfo.Run) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastCwd, _ = os.Getwd()
	if f.verdict != "" {
		return f.verdict
	}
	return result.Unknown
}

// newTestTool builds an adapter over a temp workspace containing the mapped
// tool directories, with the given fakes registered. The fatal hook records
// diagnostics instead of exiting.
func newTestTool(t *testing.T, fakes map[string]*fakeVerifier) (*Tool, *[]string) {
	t.Helper()

	dir := t.TempDir()
	for _, sub := range toolDirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatalf("failed to create tool directory: %v", err)
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})

	reg := toolinfo.NewRegistry()
	for id, fake := range fakes {
		reg.MustRegister(id, fake)
	}

	tool := New(reg)
	var fatals []string
	tool.fatal = func(format string, args ...any) {
		fatals = append(fatals, fmt.Sprintf(format, args...))
	}
	return tool, &fatals
}

func TestCmdlineArgv(t *testing.T) {
	fake := &fakeVerifier{argv: []string{"./fake-verifier", "--opt", "../output/ARG.c"}}
	tool, fatals := newTestTool(t, map[string]*fakeVerifier{"esbmc": fake})

	argv, err := tool.Cmdline("metaval.sh",
		[]string{"--metaval", "ESBMC", "--metavalWitness", "w.graphml", "--opt"},
		[]string{"t.c"}, "prop.prp", toolinfo.RunLimits{CPUSeconds: 900})
	if err != nil {
		t.Fatalf("Cmdline failed: %v", err)
	}
	if len(*fatals) != 0 {
		t.Fatalf("unexpected fatal: %v", *fatals)
	}

	want := []string{
		"metaval.sh", "--verifier", "esbmc", "--witness", "w.graphml",
		"t.c", "--",
		"./fake-verifier", "--opt", "../output/ARG.c",
	}
	if diff := cmp.Diff(want, argv); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}

	// The wrapped adapter must have been called from inside its own
	// directory, with the synthetic task and the rewritten propertyfile.
	if filepath.Base(fake.lastCwd) != "esbmc" {
		t.Errorf("wrapped cmdline ran in %q, want esbmc directory", fake.lastCwd)
	}
	if fake.lastTask != filepath.Join("..", "output", "ARG.c") {
		t.Errorf("wrapped task = %q", fake.lastTask)
	}
	if fake.lastProp != filepath.Join("..", "prop.prp") {
		t.Errorf("wrapped propertyfile = %q", fake.lastProp)
	}
	if got, want := fake.lastOptions, []string{"--opt"}; !cmp.Equal(want, got) {
		t.Errorf("wrapped options = %v, want %v", got, want)
	}
	if fake.lastLimits.CPUSeconds != 900 {
		t.Errorf("limits not forwarded, got %+v", fake.lastLimits)
	}
}

func TestCmdlineOptionalArguments(t *testing.T) {
	fake := &fakeVerifier{argv: []string{"x"}}
	tool, _ := newTestTool(t, map[string]*fakeVerifier{"esbmc": fake})

	argv, err := tool.Cmdline("metaval.sh",
		[]string{
			"--metaval=esbmc", "--metavalWitness=w.graphml",
			"--metavalAdditionalPATH", "/opt/extra",
			"--metavalWitnessType", "violation_witness",
		},
		[]string{"t.c"}, "", toolinfo.RunLimits{})
	if err != nil {
		t.Fatalf("Cmdline failed: %v", err)
	}

	want := []string{
		"metaval.sh", "--verifier", "esbmc", "--witness", "w.graphml",
		"--additionalPATH", "/opt/extra",
		"--witnessType", "violation_witness",
		"t.c", "--", "x",
	}
	if diff := cmp.Diff(want, argv); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
	if fake.lastProp != "" {
		t.Errorf("empty propertyfile should stay empty, got %q", fake.lastProp)
	}
}

func TestResolutionHappensOnce(t *testing.T) {
	fake := &fakeVerifier{}
	tool, _ := newTestTool(t, map[string]*fakeVerifier{"esbmc": fake})

	opts := []string{"--metaval", "esbmc", "--metavalWitness", "w.graphml"}
	if _, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{}); err != nil {
		t.Fatalf("first Cmdline failed: %v", err)
	}
	wrapped := tool.wrapped

	// Same identifier with different case must reuse the resolution.
	opts = []string{"--metaval", "ESBMC", "--metavalWitness", "w.graphml"}
	if _, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{}); err != nil {
		t.Fatalf("second Cmdline failed: %v", err)
	}

	if tool.wrapped != wrapped {
		t.Error("wrapped tool was reconstructed on the second call")
	}
	if fake.cmdlineCalls != 2 {
		t.Errorf("wrapped cmdline called %d times, want 2", fake.cmdlineCalls)
	}
}

func TestMixedWrappedToolsIsFatal(t *testing.T) {
	esbmc := &fakeVerifier{}
	symbiotic := &fakeVerifier{}
	tool, fatals := newTestTool(t, map[string]*fakeVerifier{
		"esbmc":     esbmc,
		"symbiotic": symbiotic,
	})

	opts := []string{"--metaval", "esbmc", "--metavalWitness", "w.graphml"}
	if _, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{}); err != nil {
		t.Fatalf("first Cmdline failed: %v", err)
	}

	opts = []string{"--metaval", "symbiotic", "--metavalWitness", "w.graphml"}
	_, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{})
	if !errors.Is(err, ErrMixedWrappedTools) {
		t.Fatalf("error = %v, want ErrMixedWrappedTools", err)
	}
	if len(*fatals) != 1 {
		t.Fatalf("fatal called %d times, want 1", len(*fatals))
	}
	if symbiotic.cmdlineCalls != 0 {
		t.Error("second verifier must not be invoked after a mixed-tools error")
	}
	if tool.verifier != "esbmc" {
		t.Errorf("recorded verifier changed to %q", tool.verifier)
	}
}

func TestUnknownVerifierIsFatal(t *testing.T) {
	tool, fatals := newTestTool(t, map[string]*fakeVerifier{})

	opts := []string{"--metaval", "nonesuch", "--metavalWitness", "w.graphml"}
	_, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{})
	if !errors.Is(err, ErrUnknownVerifier) {
		t.Fatalf("error = %v, want ErrUnknownVerifier", err)
	}
	if len(*fatals) != 1 {
		t.Errorf("fatal called %d times, want 1", len(*fatals))
	}
	if tool.wrapped != nil {
		t.Error("no wrapped tool must be recorded after a failed resolution")
	}
}

func TestMissingRequiredOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []string
		wantErr error
	}{
		{"no witness", []string{"--metaval", "esbmc"}, ErrMissingWitness},
		{"no verifier", []string{"--metavalWitness", "w.graphml"}, ErrMissingVerifier},
		{"nothing", nil, ErrMissingWitness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeVerifier{}
			tool, fatals := newTestTool(t, map[string]*fakeVerifier{"esbmc": fake})

			_, err := tool.Cmdline("metaval.sh", tt.opts, []string{"t.c"}, "", toolinfo.RunLimits{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(*fatals) != 1 {
				t.Errorf("fatal called %d times, want 1", len(*fatals))
			}
			if tool.wrapped != nil {
				t.Error("usage errors must not resolve a wrapped tool")
			}
			if fake.cmdlineCalls != 0 {
				t.Error("usage errors must not invoke the wrapped tool")
			}
		})
	}
}

func TestDirectoryMapping(t *testing.T) {
	for identifier, dir := range toolDirs {
		t.Run(identifier, func(t *testing.T) {
			fake := &fakeVerifier{}
			tool, _ := newTestTool(t, map[string]*fakeVerifier{identifier: fake})

			opts := []string{"--metaval", identifier, "--metavalWitness", "w.graphml"}
			if _, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{}); err != nil {
				t.Fatalf("Cmdline failed: %v", err)
			}
			if got := filepath.Base(fake.lastCwd); got != dir {
				t.Errorf("wrapped cmdline ran in %q, want %q", got, dir)
			}
		})
	}
}

func TestWorkingDirectoryRestored(t *testing.T) {
	fake := &fakeVerifier{cmdlineErr: errors.New("wrapped tool broke")}
	tool, _ := newTestTool(t, map[string]*fakeVerifier{"esbmc": fake})

	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	opts := []string{"--metaval", "esbmc", "--metavalWitness", "w.graphml"}
	if _, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{}); err == nil {
		t.Fatal("expected error from wrapped tool")
	}

	after, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("working directory not restored: before %q, after %q", before, after)
	}

	// Same guarantee on the classification path.
	fake.cmdlineErr = nil
	tool.DetermineResult(toolinfo.Run{ExitCode: 1})
	after, _ = os.Getwd()
	if before != after {
		t.Errorf("working directory not restored after DetermineResult: %q", after)
	}
}

func TestDetermineResultUninitialized(t *testing.T) {
	tool, _ := newTestTool(t, map[string]*fakeVerifier{})

	before, _ := os.Getwd()
	verdict := tool.DetermineResult(toolinfo.Run{ExitCode: 1, Output: []string{"whatever"}})
	after, _ := os.Getwd()

	if verdict != VerdictError {
		t.Errorf("verdict = %q, want %q", verdict, VerdictError)
	}
	if before != after {
		t.Error("uninitialized classification must not change the working directory")
	}
}

func TestDetermineResultDelegates(t *testing.T) {
	fake := &fakeVerifier{verdict: result.True}
	tool, _ := newTestTool(t, map[string]*fakeVerifier{"esbmc": fake})

	opts := []string{"--metaval", "esbmc", "--metavalWitness", "w.graphml"}
	if _, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{}); err != nil {
		t.Fatalf("Cmdline failed: %v", err)
	}

	verdict := tool.DetermineResult(toolinfo.Run{ExitCode: 0, Output: []string{"TRUE"}})
	if verdict != result.True {
		t.Errorf("verdict = %q, want %q", verdict, result.True)
	}
	if filepath.Base(fake.lastCwd) != "esbmc" {
		t.Errorf("classification ran in %q, want esbmc directory", fake.lastCwd)
	}
}

func TestConcurrentCmdline(t *testing.T) {
	fake := &fakeVerifier{}
	tool, fatals := newTestTool(t, map[string]*fakeVerifier{"esbmc": fake})

	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			opts := []string{"--metaval", "esbmc", "--metavalWitness", "w.graphml"}
			_, err := tool.Cmdline("metaval.sh", opts, []string{"t.c"}, "", toolinfo.RunLimits{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Cmdline failed: %v", err)
		}
	}
	if len(*fatals) != 0 {
		t.Errorf("unexpected fatal: %v", *fatals)
	}
	if fake.cmdlineCalls != callers {
		t.Errorf("wrapped cmdline called %d times, want %d", fake.cmdlineCalls, callers)
	}

	after, _ := os.Getwd()
	if before != after {
		t.Errorf("working directory not restored: %q", after)
	}
}

func TestRequiredPaths(t *testing.T) {
	tool := New(toolinfo.NewRegistry())

	paths := tool.RequiredPaths()
	if len(paths) != len(toolDirs) {
		t.Fatalf("RequiredPaths returned %d entries, want %d", len(paths), len(toolDirs))
	}
	seen := map[string]bool{}
	for _, p := range paths {
		seen[p] = true
	}
	for _, dir := range toolDirs {
		if !seen[dir] {
			t.Errorf("RequiredPaths missing %q", dir)
		}
	}
}
