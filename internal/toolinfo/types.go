// Package toolinfo defines the contract between the benchmark runner and
// tool adapters, plus the registry that resolves adapters by identifier.
//
// A tool adapter translates framework-level invocation requests into a
// concrete process invocation for one verifier: it locates the launcher,
// builds the argument vector for a task, and classifies the finished run
// into a verdict string (see internal/result).
package toolinfo

// RunLimits carries resource-limit hints for one tool invocation.
// Adapters forward these opaquely; enforcement is the runner's job.
type RunLimits struct {
	// CPUSeconds limits CPU time, 0 means unlimited.
	CPUSeconds int

	// WallSeconds limits wall-clock time, 0 means unlimited.
	WallSeconds int

	// MemoryBytes limits memory, 0 means unlimited.
	MemoryBytes int64

	// Cores limits the number of CPU cores, 0 means all.
	Cores int
}

// Run is the captured outcome of one finished tool process, as observed by
// the runner.
type Run struct {
	// ExitCode is the process exit code.
	ExitCode int

	// Signal is the terminating signal number, 0 if the process exited
	// normally.
	Signal int

	// Output is the captured output, one line per entry.
	Output []string

	// IsTimeout is set when the runner killed the process for exceeding
	// its time limit.
	IsTimeout bool
}

// Tool is the adapter contract every verifier implements.
//
// Name and Executable locate the tool; Cmdline builds the argument vector
// for one task; DetermineResult classifies a finished run; Version reports
// the tool version for the run report.
type Tool interface {
	// Name returns the fixed human-readable identifier of the tool.
	Name() string

	// Executable returns the filesystem path of the tool's launcher.
	Executable() (string, error)

	// Version returns the tool's version string, queried by invoking the
	// given launcher.
	Version(executable string) (string, error)

	// Cmdline builds the argument vector for one invocation. options are
	// runner-supplied flags, tasks are the input files, propertyfile is
	// the property specification (may be empty).
	Cmdline(executable string, options []string, tasks []string, propertyfile string, limits RunLimits) ([]string, error)

	// DetermineResult classifies the outcome of a finished run into a
	// verdict string from internal/result.
	DetermineResult(run Run) string
}
