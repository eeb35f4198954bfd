package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/ddomene/vesper/internal/chunk"
)

// chroma styles per UI theme.
var panelChromaStyles = map[string]string{
	"dark":  "monokai",
	"light": "github",
}

// Panel is an independent, interactive presentation of one code block.
type Panel struct {
	Block chunk.CodeBlock
	// Index is the 1-based position of the block in the conversation,
	// shown in the badge so copy shortcuts can address it.
	Index     int
	Width     int
	Collapsed bool
	// Theme selects the highlight palette ("dark" or "light").
	Theme string
}

// NewPanel creates a panel for a block with the default width and theme.
func NewPanel(block chunk.CodeBlock, index int) Panel {
	return Panel{
		Block: block,
		Index: index,
		Width: 80,
		Theme: "dark",
	}
}

var (
	panelBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	panelLineNumStyle = lipgloss.NewStyle().
				Faint(true).
				Width(4).
				Align(lipgloss.Right).
				MarginRight(1)

	panelBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				Padding(0, 1)

	panelCollapsedStyle = lipgloss.NewStyle().
				Faint(true).
				Padding(0, 1)
)

// Render draws the panel. Collapsed panels shrink to a one-line summary
// so long responses stay navigable.
func (p Panel) Render() string {
	if p.Collapsed {
		return p.renderCollapsed()
	}

	code := strings.TrimRight(p.Block.Code, "\n")
	highlighted := Highlight(code, p.Block.Language, p.Theme)
	lines := strings.Split(highlighted, "\n")

	rendered := make([]string, 0, len(lines)+1)
	rendered = append(rendered, panelBadgeStyle.Render(p.badge()))
	for i, line := range lines {
		num := panelLineNumStyle.Render(fmt.Sprintf("%d", i+1))
		rendered = append(rendered, num+line)
	}

	width := p.Width - 4
	if width < 20 {
		width = 20
	}

	return panelBorderStyle.MaxWidth(width).Render(strings.Join(rendered, "\n"))
}

// renderCollapsed draws the one-line summary form.
func (p Panel) renderCollapsed() string {
	lineCount := strings.Count(p.Block.Code, "\n") + 1
	if p.Block.Code == "" {
		lineCount = 0
	}
	return panelCollapsedStyle.Render(
		fmt.Sprintf("▸ [%d] %s · %d lines (collapsed)", p.Index, p.Block.Title(), lineCount))
}

// badge builds the header label: index, language, and filename if any.
func (p Panel) badge() string {
	label := fmt.Sprintf("[%d] %s", p.Index, p.Block.Language)
	if p.Block.Filename != "" {
		label += " · " + p.Block.Filename
	}
	return label
}

// Highlight applies terminal syntax highlighting to code. Unknown
// languages come back unstyled rather than failing.
func Highlight(code, language, theme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := panelChromaStyles[theme]
	if styleName == "" {
		styleName = panelChromaStyles["dark"]
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
