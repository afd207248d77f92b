package sandbox

import (
	"strings"
	"testing"

	"github.com/taskforge/orchestrator/internal/orcherr"
)

func TestWrap_NormalizesIndentationAndWrapsEntry(t *testing.T) {
	out, err := Wrap("  x = 1\n  print(x)", WrapOptions{SkillRoot: "/skills"})
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if !strings.Contains(out, "async def __entry():") {
		t.Error("expected async entry point")
	}
	if !strings.Contains(out, bodyIndent+"x = 1") {
		t.Errorf("expected normalized indent, got:\n%s", out)
	}
	if !strings.Contains(out, "asyncio.run(__entry())") {
		t.Error("expected scheduler call")
	}
	if !strings.Contains(out, `sys.path.insert(0, "/skills")`) {
		t.Error("expected skill root on sys.path")
	}
}

func TestWrap_PreservesEmptyLines(t *testing.T) {
	out, err := Wrap("x = 1\n\ny = 2", WrapOptions{SkillRoot: "/skills"})
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	lines := strings.Split(out, "\n")
	foundEmpty := false
	for i, l := range lines {
		if l == "" && i > 0 && strings.Contains(lines[i-1], "x = 1") {
			foundEmpty = true
		}
	}
	if !foundEmpty {
		t.Error("expected a preserved blank line between statements")
	}
}

func TestWrap_AllWhitespaceFailsValidation(t *testing.T) {
	_, err := Wrap("   \n\t\n   ", WrapOptions{SkillRoot: "/skills"})
	if err == nil {
		t.Fatal("expected ValidationError for whitespace-only code")
	}
	if orcherr.Kind(err) != "validation" {
		t.Errorf("Kind = %q, want validation", orcherr.Kind(err))
	}
}

func TestWrap_EmptyStringFailsValidation(t *testing.T) {
	_, err := Wrap("", WrapOptions{})
	if err == nil {
		t.Fatal("expected ValidationError for empty code")
	}
}

func TestWrap_MixedIndentationNormalizesToMinimum(t *testing.T) {
	code := "    if True:\n        x = 1\n    y = 2"
	out, err := Wrap(code, WrapOptions{SkillRoot: "/s"})
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if !strings.Contains(out, bodyIndent+"if True:") {
		t.Errorf("expected top-level line at bodyIndent, got:\n%s", out)
	}
	if !strings.Contains(out, bodyIndent+"    x = 1") {
		t.Errorf("expected nested line to retain relative indent, got:\n%s", out)
	}
}
