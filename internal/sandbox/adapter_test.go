package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/taskforge/orchestrator/internal/orcherr"
)

func TestSplitVariables_AbsentLineIsNoUpdate(t *testing.T) {
	out, vars := splitVariables("plain stdout\nwith two lines\n")
	if out != "plain stdout\nwith two lines" {
		t.Errorf("output = %q", out)
	}
	if vars != nil {
		t.Errorf("expected nil vars, got %v", vars)
	}
}

func TestSplitVariables_TrailingLineParsed(t *testing.T) {
	out, vars := splitVariables("SUMMARY\n__OMEGA_VARS__ {\"count\": 3, \"name\": \"x\"}\n")
	if out != "SUMMARY" {
		t.Errorf("output = %q", out)
	}
	want := map[string]any{"count": float64(3), "name": "x"}
	if !reflect.DeepEqual(vars, want) {
		t.Errorf("vars = %v, want %v", vars, want)
	}
}

func TestSplitVariables_OnlyVarsLine(t *testing.T) {
	out, vars := splitVariables(`__OMEGA_VARS__ {"a": 1}`)
	if out != "" {
		t.Errorf("output = %q, want empty", out)
	}
	if vars["a"] != float64(1) {
		t.Errorf("vars = %v", vars)
	}
}

func TestSplitVariables_MalformedJSONIgnored(t *testing.T) {
	out, vars := splitVariables("hello\n__OMEGA_VARS__ not-json")
	if vars != nil {
		t.Errorf("expected nil vars for malformed JSON, got %v", vars)
	}
	if out == "" {
		t.Error("expected original output preserved when vars line is malformed")
	}
}

func TestCapacity_RejectsOverLimit(t *testing.T) {
	SetMaxSessions(1)
	defer SetMaxSessions(0)

	if err := acquireCapacity("s1"); err != nil {
		t.Fatalf("acquireCapacity(s1): %v", err)
	}
	defer releaseCapacity("s1")

	if err := acquireCapacity("s2"); err == nil {
		t.Error("expected ResourceExhausted when over capacity")
	}
}

func TestCapacity_ReleaseFreesSlot(t *testing.T) {
	SetMaxSessions(1)
	defer SetMaxSessions(0)

	if err := acquireCapacity("s1"); err != nil {
		t.Fatalf("acquireCapacity: %v", err)
	}
	releaseCapacity("s1")

	if err := acquireCapacity("s2"); err != nil {
		t.Errorf("expected capacity to be free after release, got %v", err)
	}
	releaseCapacity("s2")
}

func TestCapacity_UnlimitedWhenZero(t *testing.T) {
	SetMaxSessions(0)
	for i := 0; i < 50; i++ {
		if err := acquireCapacity("many"); err != nil {
			t.Fatalf("unexpected capacity error with unlimited cap: %v", err)
		}
	}
	releaseCapacity("many")
}

// --- Execute() integration tests (via a fake interpreter binary) ---
//
// These stand in a tiny shell script for the real Python interpreter so
// the non-zero-exit and timeout paths are exercised without depending on
// python3 being on the test machine's PATH. The script ignores its
// argument (the wrapped script path Execute writes) entirely.

func writeFakeInterpreter(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-interpreter.sh")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write fake interpreter: %v", err)
	}
	return path
}

func TestExecute_NonZeroExitIsExecutionError(t *testing.T) {
	interp := writeFakeInterpreter(t, "exit 7\n")
	a := NewAdapter(Config{PythonPath: interp, Workspace: t.TempDir()})

	_, err := a.Execute(context.Background(), "exec-err-session", "print('hi')", Options{Timeout: 2 * time.Second})
	if err == nil {
		t.Fatal("expected an ExecutionError for non-zero exit")
	}
	if orcherr.Kind(err) != "execution" {
		t.Errorf("Kind = %q, want execution", orcherr.Kind(err))
	}
}

func TestExecute_TimeoutKillsSlowProcess(t *testing.T) {
	interp := writeFakeInterpreter(t, "sleep 5\n")
	a := NewAdapter(Config{PythonPath: interp, Workspace: t.TempDir()})

	start := time.Now()
	_, err := a.Execute(context.Background(), "timeout-session", "print('hi')", Options{Timeout: 200 * time.Millisecond})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected a Timeout error")
	}
	if orcherr.Kind(err) != "timeout" {
		t.Errorf("Kind = %q, want timeout", orcherr.Kind(err))
	}
	if elapsed < 150*time.Millisecond || elapsed > 3*time.Second {
		t.Errorf("elapsed = %v, want roughly the 200ms timeout, well short of the 5s sleep", elapsed)
	}
}
