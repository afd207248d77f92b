// Package sandbox implements the Sandbox Adapter: it wraps a generated
// code snippet in a runtime prelude, spawns an interpreter subprocess to
// run it, and reports the outcome.
package sandbox

import (
	"fmt"
	"strings"

	"github.com/taskforge/orchestrator/internal/orcherr"
)

// bodyIndent is the fixed indentation applied to normalized code so it
// sits inside the prelude's async entry point.
const bodyIndent = "        "

// WrapOptions parameterizes the prelude's module search path.
type WrapOptions struct {
	// SkillRoot is the configured skill-implementation root. The prelude
	// adds it, a sibling src/ directory, and any
	// python_modules/lib/python3.*/site-packages found under it to the
	// interpreter's module search path.
	SkillRoot string
}

// Wrap applies the code-wrapping discipline: normalize indentation,
// prepend the runtime prelude, append the scheduler call. It is pure and
// side-effect free — no subprocess is spawned here, which keeps it
// unit-testable without a live interpreter.
func Wrap(code string, opts WrapOptions) (string, error) {
	body, err := normalizeAndIndent(code)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(prelude(opts.SkillRoot))
	sb.WriteString("async def __entry():\n")
	sb.WriteString("    try:\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString("    except Exception as e:\n")
	sb.WriteString("        print(json.dumps({\"error\": str(e), \"success\": False, \"error_type\": type(e).__name__}))\n")
	sb.WriteString("\n")
	sb.WriteString("asyncio.run(__entry())\n")
	return sb.String(), nil
}

// normalizeAndIndent strips the minimum common leading whitespace from
// code's non-empty lines, then re-indents every line by bodyIndent. Empty
// lines pass through untouched. Code that is all whitespace fails with
// ErrValidation before any subprocess would be launched.
func normalizeAndIndent(code string) (string, error) {
	lines := strings.Split(code, "\n")

	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == -1 {
		return "", fmt.Errorf("%w: code is all whitespace", orcherr.ErrValidation)
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			out = append(out, "")
			continue
		}
		stripped := l
		if len(l) >= minIndent {
			stripped = l[minIndent:]
		}
		out = append(out, bodyIndent+stripped)
	}

	result := strings.Join(out, "\n")
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("%w: code is empty after normalization", orcherr.ErrValidation)
	}
	return result, nil
}

// prelude returns the runtime preamble: module search path setup plus the
// well-known "executor" instance the generated code invokes via
// executor.execute('skill-name', {...}).
func prelude(skillRoot string) string {
	return fmt.Sprintf(`import asyncio
import glob
import json
import os
import sys

sys.path.insert(0, %q)
sys.path.insert(0, os.path.join(%q, "..", "src"))
for _site_pkg in glob.glob(os.path.join(%q, "python_modules", "lib", "python3.*", "site-packages")):
    sys.path.insert(0, _site_pkg)

from skill_runtime import SkillExecutor

executor = SkillExecutor()

`, skillRoot, skillRoot, skillRoot)
}
