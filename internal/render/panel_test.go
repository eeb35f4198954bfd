package render

import (
	"strings"
	"testing"

	"github.com/ddomene/vesper/internal/chunk"
)

func testBlock() chunk.CodeBlock {
	return chunk.CodeBlock{
		Code:     "package main\n\nfunc main() {}",
		Language: "go",
		Filename: "main.go",
	}
}

func TestPanelRenderContainsBadgeAndCode(t *testing.T) {
	p := NewPanel(testBlock(), 1)
	out := p.Render()

	if !strings.Contains(out, "[1] go") {
		t.Errorf("panel output missing badge, got:\n%s", out)
	}
	if !strings.Contains(out, "main.go") {
		t.Error("panel output missing filename")
	}
	if !strings.Contains(out, "main") {
		t.Error("panel output missing code")
	}
}

func TestPanelRenderNumbersLines(t *testing.T) {
	p := NewPanel(testBlock(), 2)
	out := p.Render()

	for _, num := range []string{"1", "2", "3"} {
		if !strings.Contains(out, num) {
			t.Errorf("panel output missing line number %s", num)
		}
	}
}

func TestPanelCollapsedSummary(t *testing.T) {
	p := NewPanel(testBlock(), 3)
	p.Collapsed = true
	out := p.Render()

	if !strings.Contains(out, "collapsed") {
		t.Errorf("collapsed panel must say so, got %q", out)
	}
	if !strings.Contains(out, "3 lines") {
		t.Errorf("collapsed panel must show the line count, got %q", out)
	}
	if strings.Contains(out, "func main") {
		t.Error("collapsed panel must not show the code body")
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n"); lines != 0 {
		t.Errorf("collapsed panel spans %d extra lines, want a single line", lines)
	}
}

func TestHighlightUnknownLanguageFallsBack(t *testing.T) {
	code := "some opaque text"
	out := Highlight(code, "text", "dark")
	if out == "" {
		t.Fatal("Highlight must never return empty output")
	}
}

func TestHighlightThemes(t *testing.T) {
	code := "x = 1"
	if out := Highlight(code, "python", "dark"); out == "" {
		t.Error("dark theme produced no output")
	}
	if out := Highlight(code, "python", "light"); out == "" {
		t.Error("light theme produced no output")
	}
	// Unknown themes use the dark palette rather than failing.
	if out := Highlight(code, "python", "solar-flare"); out == "" {
		t.Error("unknown theme must fall back, not fail")
	}
}
