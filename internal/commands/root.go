// Package commands provides the CLI commands for vesper.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

var (
	// Global flags
	modelFlag  string
	outputFlag string
	fileFlag   string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vesper [prompt]",
	Short: "Chat with Vesper from your terminal",
	Long: `vesper is a command-line client for the Vesper assistant. It signs in
with your existing browser session and talks to the same web API the
browser uses.

Examples:
  vesper chat                        Start interactive chat
  vesper import-session              Pull your session from the browser
  vesper "What is Go?"               Send a single query
  vesper -f prompt.md                Read prompt from file
  cat prompt.md | vesper             Read prompt from stdin
  vesper "Hello" -o response.md      Save response to file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("vesper %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (swift or sage)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(importSessionCmd)
	rootCmd.AddCommand(historyCmd)
}

// getModel returns the model to use, flag first then config.
func getModel() models.Model {
	if modelFlag != "" {
		return models.ModelFromName(modelFlag)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return models.DefaultModel
	}
	return models.ModelFromName(cfg.DefaultModel)
}
