package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskforge/orchestrator/internal/llm"
	"github.com/taskforge/orchestrator/internal/ptc"
	"github.com/taskforge/orchestrator/internal/sandbox"
	"github.com/taskforge/orchestrator/internal/skill"
)

type scriptedLLM struct {
	responses []string
	calls     int
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (llm.Response, error) {
	resp := s.responses[s.calls]
	s.calls++
	return llm.Response{Content: resp}, nil
}

func (s *scriptedLLM) Name() string { return "scripted" }

func newTestAgent(t *testing.T, responses []string) (*Agent, string) {
	t.Helper()
	root := t.TempDir()
	writeSkill(t, root, "summarize", "name: summarize\ndescription: Summarize text content\n")

	reg, err := skill.NewRegistry(root)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	gen := &ptc.Generator{LLM: &scriptedLLM{responses: responses}, Registry: reg}
	box := sandbox.NewAdapter(sandbox.Config{
		PythonPath: "true", // "true" exits 0 without needing Python installed
		Workspace:  t.TempDir(),
		SkillRoot:  root,
	})
	return New("s1", gen, box, 2*time.Second), root
}

func writeSkill(t *testing.T, root, dir, content string) {
	t.Helper()
	full := filepath.Join(root, dir)
	if err := os.MkdirAll(full, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, "skill.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestAgent_Run_EmptyTaskIsValidationError(t *testing.T) {
	a, _ := newTestAgent(t, nil)
	result, err := a.Run("   ")
	if err != nil {
		t.Fatalf("Run returned a Go error, want it captured in TaskResult: %v", err)
	}
	if result.Success {
		t.Error("expected Success=false for empty task")
	}
	if result.Error == "" {
		t.Error("expected a populated error message")
	}
}

func TestAgent_Run_PlanFailureDoesNotSpawnSandbox(t *testing.T) {
	a, _ := newTestAgent(t, []string{"not parseable at all"})
	result, err := a.Run("do the thing")
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if result.Success {
		t.Error("expected Success=false when the plan phase is unparseable")
	}
	// Only the plan call ran, so no program was produced for the sandbox.
	if calls := a.ptcGen.LLM.(*scriptedLLM).calls; calls != 1 {
		t.Errorf("expected 1 LLM call (plan only), got %d", calls)
	}
}

func TestAgent_Run_AppendsOneUserAndOneAssistantTurnPerCall(t *testing.T) {
	a, _ := newTestAgent(t, []string{
		`{"selected_skills":["summarize"],"reasoning":"r"}`,
		"```python\nexecutor.execute('summarize', {})\n```",
	})
	if _, err := a.Run("summarize this"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(a.state.ConversationTurns) != 2 {
		t.Fatalf("expected 2 turns after one Run, got %d", len(a.state.ConversationTurns))
	}
	if a.state.ConversationTurns[0].Role != "user" || a.state.ConversationTurns[1].Role != "assistant" {
		t.Errorf("expected user-then-assistant ordering, got %+v", a.state.ConversationTurns)
	}
}

func TestAgent_Cleanup_DoesNotError(t *testing.T) {
	a, _ := newTestAgent(t, nil)
	if err := a.Cleanup(); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
}
