package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddomene/vesper/internal/api"
	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with Vesper.

The chat maintains conversation context across messages.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg, _ := config.LoadConfig()
	model := getModel()

	cred, err := config.LoadCredential()
	if err != nil {
		return err
	}

	client, err := api.NewClient(cred,
		api.WithModel(model),
		api.WithKeepAlive(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	spin := newSpinner("Connecting to Vesper")
	spin.start()
	if err := client.Init(context.Background()); err != nil {
		spin.stopWithError()
		return fmt.Errorf("failed to connect: %w", err)
	}
	spin.stopWithSuccess("Connected")

	return tui.RunChat(client.StartChat(), cfg.Theme)
}
