package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ddomene/vesper/internal/apierr"
	"github.com/ddomene/vesper/internal/chunk"
	"github.com/ddomene/vesper/internal/models"
	"github.com/ddomene/vesper/internal/render"
)

// Message types for the TUI.
type (
	responseMsg struct{}
	errMsg      struct {
		err error
	}
)

// Session is the slice of api.ChatSession the chat model needs.
type Session interface {
	Send(ctx context.Context, prompt string) (*models.Completion, error)
	Messages() []models.Message
	Clear()
	Model() models.Model
}

// Model is the bubbletea state for the interactive chat.
type Model struct {
	session Session

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	loading bool
	ready   bool
	err     error
	notice  string

	// blocks holds the code blocks extracted from every assistant reply,
	// oldest first. Panel badges number them from 1.
	blocks    []chunk.CodeBlock
	collapsed bool
	theme     string

	width  int
	height int
}

// NewChatModel creates the chat model over an established session.
func NewChatModel(session Session, theme string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if theme == "" {
		theme = "dark"
	}
	ApplyTheme(theme)

	return Model{
		session:  session,
		textarea: ta,
		spinner:  s,
		theme:    theme,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 5
		statusHeight := 1

		vpHeight := m.height - headerHeight - inputHeight - statusHeight
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		m.notice = ""

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.loading {
				return m, tea.Quit
			}

		case "ctrl+y":
			m.copyLastBlock()

		case "ctrl+o":
			m.collapsed = !m.collapsed
			m.updateViewport()

		case "ctrl+t":
			m.theme = nextTheme(m.theme)
			ApplyTheme(m.theme)
			m.updateViewport()
			m.notice = "theme: " + m.theme

		case "ctrl+l":
			m.session.Clear()
			m.blocks = nil
			m.err = nil
			m.updateViewport()
			m.notice = "chat cleared"

		case "enter":
			if !m.loading && strings.TrimSpace(m.textarea.Value()) != "" {
				input := strings.TrimSpace(m.textarea.Value())
				if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
					return m, tea.Quit
				}

				m.loading = true
				m.err = nil
				m.textarea.Reset()

				return m, tea.Batch(
					m.sendMessage(input),
					m.spinner.Tick,
				)
			}
		}

	case responseMsg:
		m.loading = false
		m.refreshBlocks()
		m.updateViewport()
		m.viewport.GotoBottom()

	case errMsg:
		m.loading = false
		m.err = msg.err
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Input stays disabled while a request is in flight.
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Starting...")
	}

	contentWidth := m.width - 4
	var sections []string

	headerParts := []string{
		titleStyle.Render("Vesper"),
		hintStyle.Render("  ·  "),
		subtitleStyle.Render(m.session.Model().Name),
	}
	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	if len(m.session.Messages()) == 0 {
		sections = append(sections, m.renderWelcome())
	} else {
		sections = append(sections, m.viewport.View())
	}

	var inputContent string
	if m.loading {
		inputContent = m.spinner.View() + loadingStyle.Render(" Vesper is thinking...")
	} else {
		inputContent = m.textarea.View()
	}
	sections = append(sections, inputStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	if m.err != nil {
		sections = append(sections, formatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width
	height := m.viewport.Height

	title := titleStyle.Width(width).Align(lipgloss.Center).Render("Welcome to Vesper")
	subtitle := hintStyle.Width(width).Align(lipgloss.Center).
		Render("Start a conversation by typing a message below")

	content := lipgloss.JoinVertical(lipgloss.Center, "", title, "", subtitle)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^Y", "Copy code"},
		{"^O", "Fold code"},
		{"^L", "Clear"},
		{"^T", "Theme"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusBarStyle.Render(" "+s.desc))
	}
	bar := strings.Join(items, statusBarStyle.Render("  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// sendMessage creates a command that runs one full request, retries included.
func (m Model) sendMessage(prompt string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		if _, err := session.Send(context.Background(), prompt); err != nil {
			return errMsg{err: err}
		}
		return responseMsg{}
	}
}

// refreshBlocks re-derives the code block list from the session transcript.
func (m *Model) refreshBlocks() {
	m.blocks = nil
	for _, msg := range m.session.Messages() {
		if msg.Sender != models.SenderAssistant || msg.Err != nil {
			continue
		}
		m.blocks = append(m.blocks, chunk.Extract(msg.Content)...)
	}
}

// copyLastBlock puts the most recent code block on the system clipboard.
func (m *Model) copyLastBlock() {
	if len(m.blocks) == 0 {
		m.notice = "no code blocks to copy"
		return
	}
	block := m.blocks[len(m.blocks)-1]
	if err := clipboard.WriteAll(block.Code); err != nil {
		m.notice = "clipboard unavailable"
		return
	}
	m.notice = fmt.Sprintf("copied [%d] %s", len(m.blocks), block.Title())
}

// updateViewport rebuilds the transcript view: prose through glamour,
// code blocks as bordered panels.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	width := m.viewport.Width - 2
	blockIndex := 0

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.Sender == models.SenderUser:
			content.WriteString(userLabelStyle.Render("You") + "\n")
			content.WriteString(userStyle.Width(width).Render(msg.Content))

		case msg.Err != nil:
			content.WriteString(replyLabel.Render("Vesper") + "\n")
			content.WriteString(formatError(msg.Err))

		default:
			content.WriteString(replyLabel.Render("Vesper") + "\n")
			for _, seg := range chunk.Split(msg.Content) {
				if seg.Kind == chunk.Code {
					blockIndex++
					panel := render.NewPanel(seg.Block, blockIndex)
					panel.Width = width
					panel.Collapsed = m.collapsed
					panel.Theme = m.theme
					content.WriteString(panel.Render() + "\n")
					continue
				}
				rendered, err := render.MarkdownWithWidth(seg.Text, width)
				if err != nil {
					rendered = seg.Text
				}
				content.WriteString(strings.TrimRight(rendered, "\n") + "\n")
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// formatError renders an error with its classification and, when one
// exists, the action the user can take.
func formatError(err error) string {
	info := apierr.Describe(err)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ [%s] %s", info.Kind, info.Message)))
	if info.SuggestedAction != "" {
		sb.WriteString("\n")
		sb.WriteString(errorHintStyle.Render(info.SuggestedAction))
	}
	return sb.String()
}

func nextTheme(current string) string {
	if current == "dark" {
		return "light"
	}
	return "dark"
}

// RunChat starts the interactive chat over an established session.
func RunChat(session Session, theme string) error {
	p := tea.NewProgram(
		NewChatModel(session, theme),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
