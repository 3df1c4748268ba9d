package run

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"veribench/internal/toolinfo"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExecuteCapturesOutput(t *testing.T) {
	e := NewExecutor()

	res, err := e.Execute(context.Background(),
		[]string{"sh", "-c", "echo line one; echo line two 1>&2"},
		toolinfo.RunLimits{WallSeconds: 10})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if len(res.Output) != 2 {
		t.Fatalf("output = %q, want 2 lines", res.Output)
	}
	joined := strings.Join(res.Output, "\n")
	if !strings.Contains(joined, "line one") || !strings.Contains(joined, "line two") {
		t.Errorf("output missing expected lines: %q", res.Output)
	}
}

func TestExecuteExitCode(t *testing.T) {
	e := NewExecutor()

	res, err := e.Execute(context.Background(),
		[]string{"sh", "-c", "exit 3"},
		toolinfo.RunLimits{WallSeconds: 10})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if res.TimedOut {
		t.Error("run should not be marked as timed out")
	}
}

func TestExecuteTimeout(t *testing.T) {
	e := NewExecutor()

	start := time.Now()
	res, err := e.Execute(context.Background(),
		[]string{"sleep", "30"},
		toolinfo.RunLimits{WallSeconds: 1})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.TimedOut {
		t.Error("run should be marked as timed out")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("timeout took %s, expected about 1s", elapsed)
	}
}

func TestExecuteTruncatesOutput(t *testing.T) {
	e := &Executor{MaxOutputBytes: 64}

	res, err := e.Execute(context.Background(),
		[]string{"sh", "-c", "i=0; while [ $i -lt 100 ]; do echo 'a long line of output'; i=$((i+1)); done"},
		toolinfo.RunLimits{WallSeconds: 10})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.Truncated {
		t.Error("output should be marked truncated")
	}
}

func TestExecuteUnknownBinary(t *testing.T) {
	e := NewExecutor()

	_, err := e.Execute(context.Background(),
		[]string{"definitely-not-a-real-binary-477"},
		toolinfo.RunLimits{})
	if err == nil {
		t.Fatal("expected error for unknown binary")
	}
}

func TestResultRunConversion(t *testing.T) {
	res := &Result{
		ExitCode: 2,
		Signal:   9,
		Output:   []string{"VERIFICATION FAILED"},
		TimedOut: true,
	}

	run := res.Run()
	if run.ExitCode != 2 || run.Signal != 9 || !run.IsTimeout {
		t.Errorf("Run conversion mismatch: %+v", run)
	}
	if len(run.Output) != 1 || run.Output[0] != "VERIFICATION FAILED" {
		t.Errorf("Run output mismatch: %v", run.Output)
	}
}
