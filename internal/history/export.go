package history

import (
	"fmt"
	"os"
	"strings"
)

// ExportMarkdown renders a conversation as a markdown document.
func ExportMarkdown(conv *Conversation) string {
	var sb strings.Builder

	sb.WriteString("# " + conv.Title + "\n\n")
	sb.WriteString(fmt.Sprintf("Model: %s  \n", conv.Model))
	sb.WriteString(fmt.Sprintf("Created: %s\n\n", conv.CreatedAt.Format("2006-01-02 15:04")))

	for _, msg := range conv.Messages {
		switch msg.Role {
		case "user":
			sb.WriteString("## You\n\n")
		default:
			sb.WriteString("## Assistant\n\n")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// ExportToFile writes a conversation's markdown rendering to path.
func ExportToFile(conv *Conversation, path string) error {
	if err := os.WriteFile(path, []byte(ExportMarkdown(conv)), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
