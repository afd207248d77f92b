package ptc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/taskforge/orchestrator/internal/skill"
)

const planSystemPrompt = `You are the planning phase of a programmatic tool-call generator. ` +
	`Given a task and the available skills, decide which skills (zero or more) are needed. ` +
	`Respond with a single JSON object: {"selected_skills": ["name", ...], "reasoning": "..."}. ` +
	`Use only skill names from the catalog below. Do not invent skills.`

const implementSystemPrompt = `You are the implementation phase of a programmatic tool-call generator. ` +
	`Write a short script that accomplishes the task using only the selected skills, ` +
	"invoking each one with the exact shape executor.execute('skill-name', {...}). " +
	"The snippet is wrapped in an async entry point automatically, so omit the main-function " +
	"declaration, the if __name__ == '__main__' guard, asyncio.run(...), and import asyncio. " +
	"Respond with exactly one fenced code block and nothing else."

func catalogSection(manifests []*skill.Manifest) string {
	if len(manifests) == 0 {
		return "(no skills registered)"
	}
	var sb strings.Builder
	for _, m := range manifests {
		fmt.Fprintf(&sb, "- %s: %s\n", m.Name, m.Description)
	}
	return sb.String()
}

// variablesBlock renders variables as "name: jsonEncoded(value)" per line,
// per spec.md §4.3's context-section contract. Keys are sorted so the
// prompt — and therefore any test asserting its shape — is deterministic.
func variablesBlock(variables map[string]any) string {
	if len(variables) == 0 {
		return ""
	}
	names := make([]string, 0, len(variables))
	for k := range variables {
		names = append(names, k)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("<variables>\n")
	for _, k := range names {
		encoded, err := json.Marshal(variables[k])
		if err != nil {
			encoded = []byte(fmt.Sprintf("%q", fmt.Sprint(variables[k])))
		}
		fmt.Fprintf(&sb, "%s: %s\n", k, encoded)
	}
	sb.WriteString("</variables>")
	return sb.String()
}

// contextSection assembles the context section both phases share: the
// truncated conversation history followed by the current variables.
func contextSection(history string, variables map[string]any) string {
	vars := variablesBlock(variables)
	switch {
	case history == "" && vars == "":
		return ""
	case history == "":
		return vars
	case vars == "":
		return history
	default:
		return history + "\n\n" + vars
	}
}

func buildPlanPrompt(task, history string, variables map[string]any, manifests []*skill.Manifest) string {
	var sb strings.Builder
	sb.WriteString("<task>\n")
	sb.WriteString(task)
	sb.WriteString("\n</task>\n\n")
	if ctx := contextSection(history, variables); ctx != "" {
		sb.WriteString(ctx)
		sb.WriteString("\n\n")
	}
	sb.WriteString("<skills>\n")
	sb.WriteString(catalogSection(manifests))
	sb.WriteString("</skills>\n")
	return sb.String()
}

func buildImplementPrompt(task, history string, variables map[string]any, plan planDecision, manifests []*skill.Manifest) string {
	var sb strings.Builder
	sb.WriteString("<task>\n")
	sb.WriteString(task)
	sb.WriteString("\n</task>\n\n")
	if ctx := contextSection(history, variables); ctx != "" {
		sb.WriteString(ctx)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "<selected_skills reasoning=%q>\n", plan.reasoning)
	for _, name := range plan.selectedSkills {
		for _, m := range manifests {
			if m.Name == name {
				fmt.Fprintf(&sb, "- %s: %s\n", m.Name, m.Description)
			}
		}
	}
	sb.WriteString("</selected_skills>\n")
	return sb.String()
}
