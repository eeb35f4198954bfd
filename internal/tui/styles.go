// Package tui provides the interactive chat terminal interface for vesper.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// palette holds the colors for one UI theme.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	border    lipgloss.Color
	text      lipgloss.Color
	textDim   lipgloss.Color
	errColor  lipgloss.Color
	hint      lipgloss.Color
}

var palettes = map[string]palette{
	"dark": {
		primary:   lipgloss.Color("#7c6af7"),
		secondary: lipgloss.Color("#48dbfb"),
		border:    lipgloss.Color("#3a3a4a"),
		text:      lipgloss.Color("#e4e4e7"),
		textDim:   lipgloss.Color("#8b8b9a"),
		errColor:  lipgloss.Color("#ff6b6b"),
		hint:      lipgloss.Color("#1dd1a1"),
	},
	"light": {
		primary:   lipgloss.Color("#5a46d6"),
		secondary: lipgloss.Color("#0a7ea4"),
		border:    lipgloss.Color("#c8c8d0"),
		text:      lipgloss.Color("#24292f"),
		textDim:   lipgloss.Color("#6e7781"),
		errColor:  lipgloss.Color("#cf222e"),
		hint:      lipgloss.Color("#1a7f37"),
	},
}

// Style variables, rebuilt when the theme changes.
var (
	titleStyle     lipgloss.Style
	subtitleStyle  lipgloss.Style
	hintStyle      lipgloss.Style
	headerStyle    lipgloss.Style
	userLabelStyle lipgloss.Style
	userStyle      lipgloss.Style
	replyLabel     lipgloss.Style
	inputStyle     lipgloss.Style
	loadingStyle   lipgloss.Style
	statusKeyStyle lipgloss.Style
	statusBarStyle lipgloss.Style
	errorStyle     lipgloss.Style
	errorHintStyle lipgloss.Style
	noticeStyle    lipgloss.Style
)

func init() {
	ApplyTheme("dark")
}

// ApplyTheme rebuilds all TUI styles for the named theme. Unknown names
// fall back to dark.
func ApplyTheme(name string) {
	p, ok := palettes[name]
	if !ok {
		p = palettes["dark"]
	}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.primary)
	subtitleStyle = lipgloss.NewStyle().Foreground(p.secondary)
	hintStyle = lipgloss.NewStyle().Foreground(p.textDim)

	headerStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(p.secondary)
	userStyle = lipgloss.NewStyle().Foreground(p.text).PaddingLeft(2)
	replyLabel = lipgloss.NewStyle().Bold(true).Foreground(p.primary)

	inputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().Foreground(p.primary)
	statusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(p.secondary)
	statusBarStyle = lipgloss.NewStyle().Foreground(p.textDim)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(p.errColor)
	errorHintStyle = lipgloss.NewStyle().Foreground(p.hint).PaddingLeft(2)
	noticeStyle = lipgloss.NewStyle().Foreground(p.hint)
}
