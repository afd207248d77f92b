// Package agent implements the Agent: it owns one session.State and turns
// a task string into a session.TaskResult by driving the PTC Generator
// and the Sandbox Adapter in sequence.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskforge/orchestrator/internal/orcherr"
	"github.com/taskforge/orchestrator/internal/ptc"
	"github.com/taskforge/orchestrator/internal/sandbox"
	"github.com/taskforge/orchestrator/internal/session"
)

// skillCallPattern is the textual shape the core counts to populate
// Metadata.SkillCalls (spec.md §6's wrapped-code prelude contract).
const skillCallPattern = "executor.execute"

// llmCallsPerRun is fixed: the PTC Generator always makes exactly two
// calls (Plan, then Implement) per Run.
const llmCallsPerRun = 2

// Agent owns one session.State exclusively. It is not safe for concurrent
// Run calls — callers serialize access via session.Handle.
type Agent struct {
	state       *session.State
	ptcGen      *ptc.Generator
	sandbox     *sandbox.Adapter
	taskTimeout time.Duration
}

// New constructs an Agent for sessionID with its own private sandbox
// Adapter, per spec.md §9's ownership decision.
func New(sessionID string, ptcGen *ptc.Generator, box *sandbox.Adapter, taskTimeout time.Duration) *Agent {
	return &Agent{
		state:       session.NewState(sessionID),
		ptcGen:      ptcGen,
		sandbox:     box,
		taskTimeout: taskTimeout,
	}
}

// Run implements session.Agent. It never returns a non-nil error itself —
// every failure mode is captured as a TaskResult with Success=false, per
// spec.md §7's "the exception path is never silently eaten, but is always
// surfaced through TaskResult" contract.
func (a *Agent) Run(task string) (session.TaskResult, error) {
	start := time.Now()
	a.state.Touch()

	if strings.TrimSpace(task) == "" {
		return a.fail(start, fmt.Errorf("%w: task must not be empty", orcherr.ErrValidation)), nil
	}

	a.state.AppendTurn(session.RoleUser, task)

	ctx, cancel := context.WithTimeout(context.Background(), a.taskTimeout)
	defer cancel()

	plan, err := a.ptcGen.Generate(ctx, task, a.state.ConversationTurns, a.state.Variables)
	if err != nil {
		return a.fail(start, err), nil
	}

	sbResult, err := a.sandbox.Execute(ctx, a.state.SessionID, plan.Program, sandbox.Options{Timeout: a.taskTimeout})
	if err != nil {
		return a.fail(start, err), nil
	}

	elapsed := time.Since(start).Milliseconds()
	a.state.AppendExecution(task, sbResult.Output, elapsed)
	a.state.AppendTurn(session.RoleAssistant, sbResult.Output)
	for name, value := range sbResult.Variables {
		a.state.SetVariable(name, value)
	}

	return session.TaskResult{
		Success:   true,
		Output:    sbResult.Output,
		ElapsedMS: elapsed,
		SessionID: a.state.SessionID,
		State:     a.state.Summary(),
		Metadata: session.Metadata{
			LLMCalls:    llmCallsPerRun,
			SkillCalls:  strings.Count(plan.Program, skillCallPattern),
			TotalTokens: plan.TotalTokens,
		},
	}, nil
}

func (a *Agent) fail(start time.Time, err error) session.TaskResult {
	a.state.AppendTurn(session.RoleAssistant, "Error: "+err.Error())
	return session.TaskResult{
		Success:   false,
		Error:     err.Error(),
		ElapsedMS: time.Since(start).Milliseconds(),
		SessionID: a.state.SessionID,
		State:     a.state.Summary(),
	}
}

// Cleanup releases the Agent's sandbox resources. Implements session.Agent.
func (a *Agent) Cleanup() error {
	return a.sandbox.Cleanup(a.state.SessionID)
}
