package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ddomene/vesper/internal/api"
	"github.com/ddomene/vesper/internal/apierr"
	"github.com/ddomene/vesper/internal/chunk"
	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/history"
	"github.com/ddomene/vesper/internal/models"
	"github.com/ddomene/vesper/internal/render"
	"github.com/ddomene/vesper/internal/retry"
)

var (
	replyLabelStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	replyBodyStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)
)

// runQuery sends one prompt and prints the reply. With rawOutput set,
// only the reply text is written, undecorated, for piping.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, _ := config.LoadConfig()
	model := getModel()

	cred, err := config.LoadCredential()
	if err != nil {
		return err
	}

	var spin *spinner
	policy := retry.DefaultPolicy()
	if !rawOutput {
		policy.Notify = func(attempt int, delay time.Duration, err error) {
			if spin != nil {
				spin.setMessage(fmt.Sprintf("Retrying in %s (attempt %d failed: %s)",
					delay.Round(time.Millisecond), attempt, apierr.KindOf(err)))
			}
		}
	}

	client, err := api.NewClient(cred,
		api.WithModel(model),
		api.WithRetryPolicy(policy),
		api.WithKeepAlive(false),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	ctx := context.Background()

	if !rawOutput {
		spin = newSpinner("Connecting to Vesper")
		spin.start()
	}
	if err := client.Init(ctx); err != nil {
		if spin != nil {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to connect"))
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	if spin != nil {
		spin.stopWithSuccess("Connected")

		spin = newSpinner("Generating response")
		spin.start()
	}

	completion, err := client.Complete(ctx, prompt, nil)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Request failed"))
		}
		return fmt.Errorf("request failed: %w", err)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	recordQuery(prompt, completion)

	text := completion.Text

	if rawOutput {
		if outputFlag != "" {
			return os.WriteFile(outputFlag, []byte(text), 0o644)
		}
		fmt.Print(text)
		return nil
	}

	fmt.Fprintln(os.Stderr)

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			warn := lipgloss.NewStyle().Foreground(colorFailure).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err))
			fmt.Fprintln(os.Stderr, warn)
		} else {
			note := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, note)
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		note := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag))
		fmt.Fprintln(os.Stderr, note)
		return nil
	}

	printReply(text, cfg.Theme)
	return nil
}

// printReply renders the reply for a terminal: prose through glamour,
// code blocks as bordered panels.
func printReply(text, theme string) {
	width := terminalWidth() - 4
	if width < 40 {
		width = 40
	}
	if width > 120 {
		width = 120
	}

	fmt.Println(replyLabelStyle.Render("Vesper"))

	blockIndex := 0
	var body strings.Builder
	for _, seg := range chunk.Split(text) {
		if seg.Kind == chunk.Code {
			blockIndex++
			panel := render.NewPanel(seg.Block, blockIndex)
			panel.Width = width - 4
			panel.Theme = theme
			body.WriteString(panel.Render() + "\n")
			continue
		}
		rendered, err := render.MarkdownWithWidth(seg.Text, width-4)
		if err != nil {
			rendered = seg.Text
		}
		body.WriteString(strings.TrimRight(rendered, "\n") + "\n")
	}

	fmt.Println(replyBodyStyle.Width(width).Render(strings.TrimRight(body.String(), "\n")))
}

// recordQuery persists a one-shot exchange to local history. History
// failures never fail the query itself.
func recordQuery(prompt string, completion *models.Completion) {
	store, err := history.DefaultStore()
	if err != nil {
		return
	}
	conv, err := store.Create(completion.Model)
	if err != nil {
		return
	}
	_ = store.AddMessage(conv.ID, models.SenderUser, prompt)
	_ = store.AddMessage(conv.ID, models.SenderAssistant, completion.Text)
	_ = store.SetContext(conv.ID, completion.ConversationID, completion.ReplyID)
}

// terminalWidth returns the terminal width or a default value.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY reports whether stdout is connected to a terminal.
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with its classification and the
// action the user can take, when one exists.
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorFailure)
	dimStyle := lipgloss.NewStyle().Foreground(colorDim)

	info := apierr.Describe(err)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Kind: %s", info.Kind)))

	if status := apierr.HTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if info.SuggestedAction != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + info.SuggestedAction))
	}

	return sb.String()
}
