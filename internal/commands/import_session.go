package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ddomene/vesper/internal/browser"
	"github.com/ddomene/vesper/internal/config"
)

var browserFlag string

var importSessionCmd = &cobra.Command{
	Use:   "import-session",
	Short: "Import your Vesper session from the browser",
	Long: `Import your Vesper session from a browser you are signed in with.

Reads the session cookie from the browser's cookie store and saves it
for vesper to use. Sign in at chat.vesper.ai first, then run this.`,
	RunE: runImportSession,
}

func init() {
	names := make([]string, 0, len(browser.AllSupportedBrowsers()))
	for _, b := range browser.AllSupportedBrowsers() {
		names = append(names, b.String())
	}
	importSessionCmd.Flags().StringVarP(&browserFlag, "browser", "b", "auto",
		"Browser to read from ("+strings.Join(names, ", ")+")")
}

func runImportSession(cmd *cobra.Command, args []string) error {
	browserType, err := browser.ParseBrowser(browserFlag)
	if err != nil {
		return err
	}

	spin := newSpinner("Searching browser cookie stores")
	spin.start()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	result, err := browser.ExtractSession(ctx, browserType)
	if err != nil {
		spin.stopWithError()
		return fmt.Errorf("no usable session found: %w", err)
	}

	if err := config.SaveCredential(result.Credential); err != nil {
		spin.stopWithError()
		return fmt.Errorf("failed to save credential: %w", err)
	}

	label := result.BrowserName
	if result.Profile != "" {
		label += " (" + result.Profile + ")"
	}
	spin.stopWithSuccess("Session imported from " + label)
	return nil
}
