// Package ptc implements the two-phase programmatic-tool-call generator:
// a Plan call selects which skills a task needs, then an Implement call
// turns that selection into an executable program calling those skills
// through the sandbox's executor helper.
package ptc

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/taskforge/orchestrator/internal/llm"
	"github.com/taskforge/orchestrator/internal/orcherr"
	"github.com/taskforge/orchestrator/internal/session"
	"github.com/taskforge/orchestrator/internal/skill"
)

// defaultHistoryWindow caps the conversation turns fed into the plan
// prompt when Generator.HistoryWindow is unset.
const defaultHistoryWindow = 5

// Result is the transient output of a full Plan+Implement cycle.
type Result struct {
	SelectedSkills []string
	Reasoning      string
	Program        string
	TotalTokens    int
}

// Registry is the subset of skill.Registry the generator needs, kept
// narrow so tests can supply a fake.
type Registry interface {
	List() []*skill.Manifest
	Has(name string) bool
}

// Generator drives the two LLM calls. HistoryWindow, if zero, falls back
// to defaultHistoryWindow (5) per spec.
type Generator struct {
	LLM           llm.ChatCompleter
	Registry      Registry
	HistoryWindow int
}

func (g *Generator) historyWindow() int {
	if g.HistoryWindow > 0 {
		return g.HistoryWindow
	}
	return defaultHistoryWindow
}

// Generate runs the Plan phase then the Implement phase, returning the
// final program source. Every name the Plan phase selects must exist in
// Registry at this moment or Generate fails with ErrSkillNotFound.
func (g *Generator) Generate(ctx context.Context, task string, history []session.Turn, variables map[string]any) (Result, error) {
	plan, planTokens, err := g.plan(ctx, task, history, variables)
	if err != nil {
		return Result{}, err
	}

	for _, name := range plan.selectedSkills {
		if !g.Registry.Has(name) {
			return Result{}, fmt.Errorf("%w: skill %q selected by plan is not registered", orcherr.ErrSkillNotFound, name)
		}
	}

	program, implTokens, err := g.implement(ctx, task, history, variables, plan)
	if err != nil {
		return Result{}, err
	}

	return Result{
		SelectedSkills: plan.selectedSkills,
		Reasoning:      plan.reasoning,
		Program:        program,
		TotalTokens:    planTokens + implTokens,
	}, nil
}

func recentHistory(history []session.Turn, window int) []session.Turn {
	if len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}

func historyBlock(history []session.Turn, window int) string {
	recent := recentHistory(history, window)
	if len(recent) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<conversation_history>\n")
	for _, t := range recent {
		fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Text)
	}
	sb.WriteString("</conversation_history>")
	return sb.String()
}

func (g *Generator) plan(ctx context.Context, task string, history []session.Turn, variables map[string]any) (planDecision, int, error) {
	prompt := buildPlanPrompt(task, historyBlock(history, g.historyWindow()), variables, g.Registry.List())

	resp, err := g.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: planSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.DefaultOptions())
	if err != nil {
		return planDecision{}, 0, err
	}

	decision, err := parsePlan(resp.Content)
	if err != nil {
		log.Printf("[PTC] plan phase unparseable: %v", err)
		return planDecision{}, 0, err
	}
	return decision, resp.Usage.TotalTokens, nil
}

func (g *Generator) implement(ctx context.Context, task string, history []session.Turn, variables map[string]any, plan planDecision) (string, int, error) {
	prompt := buildImplementPrompt(task, historyBlock(history, g.historyWindow()), variables, plan, g.Registry.List())

	resp, err := g.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: implementSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.DefaultOptions())
	if err != nil {
		return "", 0, err
	}

	code, err := parseCode(resp.Content)
	if err != nil {
		log.Printf("[PTC] implement phase unparseable: %v", err)
		return "", 0, err
	}
	return code, resp.Usage.TotalTokens, nil
}
