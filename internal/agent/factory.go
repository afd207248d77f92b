package agent

import (
	"path/filepath"
	"time"

	"github.com/taskforge/orchestrator/internal/llm"
	"github.com/taskforge/orchestrator/internal/ptc"
	"github.com/taskforge/orchestrator/internal/sandbox"
	"github.com/taskforge/orchestrator/internal/session"
	"github.com/taskforge/orchestrator/internal/skill"
)

// NewFactory returns a session.AgentFactory that builds an Agent (with its
// own private sandbox.Adapter) per session id, sharing the same LLM
// client and skill registry across every session.
func NewFactory(chat llm.ChatCompleter, registry *skill.Registry, skillRoot, pythonPath, workspace string, taskTimeout time.Duration, historyWindow int) session.AgentFactory {
	return func(sessionID string) (session.Agent, error) {
		gen := &ptc.Generator{
			LLM:           chat,
			Registry:      registry,
			HistoryWindow: historyWindow,
		}
		box := sandbox.NewAdapter(sandbox.Config{
			PythonPath: pythonPath,
			Workspace:  filepath.Join(workspace, sessionID),
			SkillRoot:  skillRoot,
		})
		return New(sessionID, gen, box, taskTimeout), nil
	}
}
