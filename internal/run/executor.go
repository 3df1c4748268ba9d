// Package run executes a tool command line and captures the outcome in the
// form tool adapters classify. It is the runner side of the adapter
// contract: build argv with a tool's Cmdline, execute it here, feed the
// Result back into DetermineResult.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"veribench/internal/logging"
	"veribench/internal/toolinfo"
)

// DefaultMaxOutputBytes caps captured tool output.
const DefaultMaxOutputBytes = 10 * 1024 * 1024

// Result is the captured outcome of one tool invocation.
type Result struct {
	// RunID uniquely identifies this invocation in logs and reports.
	RunID string

	// ExitCode is the process exit code, -1 if the process was killed.
	ExitCode int

	// Signal is the terminating signal number, 0 if none.
	Signal int

	// Output is the combined stdout and stderr, one line per entry.
	Output []string

	// TimedOut is set when the process was killed by the time limit.
	TimedOut bool

	// Truncated is set when output exceeded the size cap.
	Truncated bool

	// Duration is the wall-clock run time.
	Duration time.Duration
}

// Run converts the result to the adapter-facing outcome type.
func (r *Result) Run() toolinfo.Run {
	return toolinfo.Run{
		ExitCode:  r.ExitCode,
		Signal:    r.Signal,
		Output:    r.Output,
		IsTimeout: r.TimedOut,
	}
}

// Executor runs tool command lines directly on the host. No sandboxing:
// resource limits are enforced only as a wall-clock timeout and an output
// cap.
type Executor struct {
	// MaxOutputBytes caps captured output; DefaultMaxOutputBytes if 0.
	MaxOutputBytes int64
}

// NewExecutor creates an executor with default settings.
func NewExecutor() *Executor {
	return &Executor{MaxOutputBytes: DefaultMaxOutputBytes}
}

// Execute runs argv and captures its outcome. The wall-time limit (falling
// back to the CPU limit) is applied as a deadline; a run killed by it is
// reported with TimedOut set rather than as an error. An error is returned
// only when the process could not be started at all.
func (e *Executor) Execute(ctx context.Context, argv []string, limits toolinfo.RunLimits) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command line")
	}

	timeout := time.Duration(limits.WallSeconds) * time.Second
	if timeout == 0 {
		timeout = time.Duration(limits.CPUSeconds) * time.Second
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result := &Result{
		RunID:    uuid.NewString(),
		ExitCode: -1,
	}

	maxOutput := e.MaxOutputBytes
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutputBytes
	}

	var buf bytes.Buffer
	limited := &limitedWriter{w: &buf, max: maxOutput}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = limited
	cmd.Stderr = limited

	logging.ExecDebug("[%s] executing: %s", result.RunID, strings.Join(argv, " "))
	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)

	result.Output = splitLines(buf.String())
	result.Truncated = limited.truncated
	if result.Truncated {
		logging.ExecWarn("[%s] output truncated: %d bytes discarded", result.RunID, limited.discarded)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case ctx.Err() == context.DeadlineExceeded:
		result.TimedOut = true
		logging.ExecWarn("[%s] killed after %s", result.RunID, timeout)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			result.Signal = int(status.Signal())
			result.ExitCode = -1
		}
	default:
		return nil, fmt.Errorf("could not run %s: %w", argv[0], err)
	}

	logging.Exec("[%s] finished: exit=%d signal=%d timeout=%v duration=%s",
		result.RunID, result.ExitCode, result.Signal, result.TimedOut, result.Duration)
	return result, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// limitedWriter caps how much output is kept; overflow is counted and
// dropped without failing the write.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
	discarded int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)

	if lw.written >= lw.max {
		lw.truncated = true
		lw.discarded += int64(n)
		return n, nil
	}

	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		lw.discarded += int64(n) - remaining
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err
	}

	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
