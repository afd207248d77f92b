package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/orchestrator/internal/orcherr"
)

// defaultTimeout matches spec.md §4.6's options.timeout default.
const defaultTimeout = 300 * time.Second

// varsMarker is the trailing stdout line convention by which a skill
// execution surfaces variable updates back to the Agent (spec.md §9's
// resolution of the variables-map open question).
const varsMarker = "__OMEGA_VARS__ "

// Options configures a single Execute call.
type Options struct {
	Timeout time.Duration // 0 => defaultTimeout
}

// Result is the outcome of a sandbox execution.
type Result struct {
	Output    string
	Variables map[string]any
}

// Config is the fixed, per-Adapter configuration.
type Config struct {
	PythonPath string // interpreter executable, e.g. "python3"
	Workspace  string // scratch directory for generated scripts
	SkillRoot  string // skill-implementation root passed to the prelude
}

// Adapter executes code snippets in an isolated interpreter subprocess.
// Each Agent owns one Adapter; the capacity cap enforced by Execute is
// process-wide (see capacity.go).
type Adapter struct {
	cfg Config
}

// NewAdapter constructs an Adapter. PythonPath and Workspace fall back to
// "python3" and os.TempDir() respectively when empty.
func NewAdapter(cfg Config) *Adapter {
	if cfg.PythonPath == "" {
		cfg.PythonPath = "python3"
	}
	if cfg.Workspace == "" {
		cfg.Workspace = os.TempDir()
	}
	return &Adapter{cfg: cfg}
}

// Execute wraps code, spawns the interpreter against sessionID's workspace
// file, and waits for it to finish or time out.
func (a *Adapter) Execute(ctx context.Context, sessionID, code string, opts Options) (Result, error) {
	wrapped, err := Wrap(code, WrapOptions{SkillRoot: a.cfg.SkillRoot})
	if err != nil {
		return Result{}, err
	}

	if err := acquireCapacity(sessionID); err != nil {
		return Result{}, err
	}
	defer releaseCapacity(sessionID)

	if err := os.MkdirAll(a.cfg.Workspace, 0755); err != nil {
		return Result{}, fmt.Errorf("%w: create workspace: %v", orcherr.ErrExecution, err)
	}

	scriptPath := filepath.Join(a.cfg.Workspace, sessionID+".py")
	if err := os.WriteFile(scriptPath, []byte(wrapped), 0644); err != nil {
		return Result{}, fmt.Errorf("%w: write script: %v", orcherr.ErrExecution, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	trace := uuid.NewString()
	cmd := exec.CommandContext(runCtx, a.cfg.PythonPath, scriptPath)
	cmd.Dir = a.cfg.Workspace
	cmd.Env = append(os.Environ(),
		"TRACE_ID="+trace,
		"SKILL_ROOT="+a.cfg.SkillRoot,
		"PYTHONPATH="+a.cfg.SkillRoot,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Bound how long Run waits for output pipes after the kill: a child the
	// interpreter spawned can otherwise hold them open past the timeout.
	cmd.WaitDelay = 100 * time.Millisecond

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		a.onFailure(sessionID, wrapped, scriptPath)
		return Result{}, fmt.Errorf("%w: execution timeout after %v", orcherr.ErrTimeout, timeout)
	}

	exitCode := 0
	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			return Result{}, fmt.Errorf("%w: spawn %q: %v", orcherr.ErrExecution, a.cfg.PythonPath, runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	if exitCode != 0 {
		a.onFailure(sessionID, wrapped, scriptPath)
		return Result{}, fmt.Errorf("%w: exit code %d: %s", orcherr.ErrExecution, exitCode, strings.TrimSpace(stderr.String()))
	}

	os.Remove(scriptPath)

	output, vars := splitVariables(stdout.String())
	return Result{Output: output, Variables: vars}, nil
}

// onFailure copies the wrapped source to a debug file (best-effort) and
// removes the live script, matching the cleanup contract in spec.md §4.6.
func (a *Adapter) onFailure(sessionID, wrapped, scriptPath string) {
	debugPath := filepath.Join(a.cfg.Workspace, sessionID+".debug.py")
	if err := os.WriteFile(debugPath, []byte(wrapped), 0644); err != nil {
		// Best-effort only — losing the debug copy is not itself a failure.
		_ = err
	}
	os.Remove(scriptPath)
}

// splitVariables strips a trailing __OMEGA_VARS__ {...} line from output,
// if present, and decodes it. Absence of the line means no variable
// updates, not an error.
func splitVariables(output string) (string, map[string]any) {
	trimmed := strings.TrimRight(output, "\n")
	idx := strings.LastIndex(trimmed, "\n"+varsMarker)
	var line string
	if idx >= 0 {
		line = trimmed[idx+1:]
		trimmed = trimmed[:idx]
	} else if strings.HasPrefix(trimmed, varsMarker) {
		line = trimmed
		trimmed = ""
	} else {
		return strings.TrimSpace(output), nil
	}

	var vars map[string]any
	payload := strings.TrimPrefix(line, varsMarker)
	if err := json.Unmarshal([]byte(payload), &vars); err != nil {
		return strings.TrimSpace(output), nil
	}
	return strings.TrimSpace(trimmed), vars
}

// HealthCheck verifies the configured interpreter is runnable.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, a.cfg.PythonPath, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: interpreter health check failed: %v", orcherr.ErrExecution, err)
	}
	return nil
}

// Cleanup removes sessionID's live workspace script, if one remains, and
// frees its capacity slot. A .debug.py copy left by a failed run is kept.
// Safe to call even when no execution is in flight.
func (a *Adapter) Cleanup(sessionID string) error {
	releaseCapacity(sessionID)
	os.Remove(filepath.Join(a.cfg.Workspace, sessionID+".py"))
	return nil
}

// Info returns a human-readable summary for diagnostics.
func (a *Adapter) Info() string {
	return fmt.Sprintf("sandbox interpreter=%s workspace=%s active=%d", a.cfg.PythonPath, a.cfg.Workspace, ActiveCount())
}
