package ptc

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/taskforge/orchestrator/internal/orcherr"
	"github.com/taskforge/orchestrator/internal/util"
)

// minCodeLen is the spec.md §4.3 floor: extracted code shorter than this
// (after boilerplate stripping) is treated as no code at all.
const minCodeLen = 5

// boilerplateLines matches the lines spec.md §4.3 says the model may
// include despite being told to omit them: the snippet is wrapped in an
// async entry point automatically, so a main-function declaration,
// module-main guard, asyncio runner, or asyncio import would be redundant
// (and, left in, would nest inside sandbox.Wrap's own entry point).
var boilerplateLines = []*regexp.Regexp{
	regexp.MustCompile(`^\s*import\s+asyncio\s*$`),
	regexp.MustCompile(`^\s*(async\s+)?def\s+main\s*\(\s*\)\s*:\s*$`),
	regexp.MustCompile(`^\s*if\s+__name__\s*==\s*['"]__main__['"]\s*:\s*$`),
	regexp.MustCompile(`^\s*asyncio\.run\(.*\)\s*$`),
}

// stripBoilerplate removes lines the model included despite being told
// not to. It never rejoins or re-indents the surrounding body — any
// indentation the stripped line's block left behind survives unchanged,
// since sandbox.Wrap's own dedent pass normalizes it later.
func stripBoilerplate(code string) string {
	lines := strings.Split(code, "\n")
	out := lines[:0:0]
	for _, l := range lines {
		skip := false
		for _, re := range boilerplateLines {
			if re.MatchString(l) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, l)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// planDecision is the parsed result of the Plan phase, before skill
// validation against the registry.
type planDecision struct {
	selectedSkills []string
	reasoning      string
}

type planJSON struct {
	SelectedSkills []string `json:"selected_skills"`
	Reasoning      string   `json:"reasoning"`
}

var rawJSONObject = regexp.MustCompile(`(?s)\{.*\}`)

// parsePlan extracts the plan JSON from raw LLM output, trying in order:
// an explicit <plan>...</plan> block, a bare {...} object containing
// "selected_skills" found anywhere in the text, then a fenced ```json
// block.
func parsePlan(raw string) (planDecision, error) {
	candidates := []func(string) (string, bool){
		extractTagged("plan"),
		extractRawObject,
		extractFenced("json"),
	}

	var lastErr error
	for _, extract := range candidates {
		body, ok := extract(raw)
		if !ok {
			continue
		}
		var pj planJSON
		if err := json.Unmarshal([]byte(body), &pj); err != nil {
			lastErr = err
			continue
		}
		return planDecision{selectedSkills: pj.SelectedSkills, reasoning: pj.Reasoning}, nil
	}

	if lastErr != nil {
		return planDecision{}, fmt.Errorf("%w: plan JSON present but malformed: %v", orcherr.ErrParse, lastErr)
	}
	return planDecision{}, fmt.Errorf("%w: no plan JSON found in LLM output: %q", orcherr.ErrParse, util.TruncateRunes(raw, 200))
}

// parseCode extracts the implementation code from raw LLM output, trying
// in order: a language-tagged fenced block (```python, ```js, ...), a
// generic fenced block, an angle-tagged <code>...</code> block, then the
// text after the first "CODE:" marker through end of text.
func parseCode(raw string) (string, error) {
	candidates := []func(string) (string, bool){
		extractFencedAnyLang,
		extractFenced(""),
		extractTagged("code"),
		extractMarker("CODE:"),
	}

	for _, extract := range candidates {
		body, ok := extract(raw)
		if !ok {
			continue
		}
		cleaned := stripBoilerplate(body)
		if len([]rune(cleaned)) < minCodeLen {
			continue
		}
		return cleaned, nil
	}

	return "", fmt.Errorf("%w: no code block found in LLM output: %q", orcherr.ErrParse, util.TruncateRunes(raw, 200))
}

// extractTagged returns an extractor for <tag>...</tag>.
func extractTagged(tag string) func(string) (string, bool) {
	open := "<" + tag + ">"
	close_ := "</" + tag + ">"
	return func(s string) (string, bool) {
		start := strings.Index(s, open)
		if start < 0 {
			return "", false
		}
		rest := s[start+len(open):]
		end := strings.Index(rest, close_)
		if end < 0 {
			return "", false
		}
		return strings.TrimSpace(rest[:end]), true
	}
}

// extractFenced returns an extractor for ```lang ... ``` when lang is
// non-empty, or the first ``` ... ``` block when lang is empty.
func extractFenced(lang string) func(string) (string, bool) {
	marker := "```" + lang
	return func(s string) (string, bool) {
		start := strings.Index(s, marker)
		if start < 0 {
			return "", false
		}
		rest := s[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			return "", false
		}
		return strings.TrimSpace(rest[:end]), true
	}
}

// languageTags are the fence tags extractFencedAnyLang tries, in order of
// how often this corpus's models emit them.
var languageTags = []string{"python", "py", "javascript", "js", "go"}

func extractFencedAnyLang(s string) (string, bool) {
	for _, tag := range languageTags {
		if body, ok := extractFenced(tag)(s); ok {
			return body, true
		}
	}
	return "", false
}

func extractRawObject(s string) (string, bool) {
	m := rawJSONObject.FindString(s)
	if m == "" || !strings.Contains(m, `"selected_skills"`) {
		return "", false
	}
	return m, true
}

// extractMarker returns an extractor for the text after the first
// occurrence of marker (anywhere in s, not only at a line start) through
// the end of the text.
func extractMarker(marker string) func(string) (string, bool) {
	return func(s string) (string, bool) {
		idx := strings.Index(s, marker)
		if idx < 0 {
			return "", false
		}
		return s[idx+len(marker):], true
	}
}
