package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Supported keys:

  model      Default model (swift or sage)
  theme      UI theme (dark or light)
  clipboard  Copy replies to the clipboard (true or false)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Warning: %v (showing defaults)\n\n", err)
	}

	fmt.Printf("model:      %s\n", cfg.DefaultModel)
	fmt.Printf("theme:      %s\n", cfg.Theme)
	fmt.Printf("clipboard:  %t\n", cfg.CopyToClipboard)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := strings.ToLower(args[0]), args[1]

	cfg, _ := config.LoadConfig()

	switch key {
	case "model":
		model := models.ModelFromName(value)
		cfg.DefaultModel = model.Name

	case "theme":
		if !validTheme(value) {
			return fmt.Errorf("unknown theme %q (themes: %s)", value, strings.Join(config.Themes(), ", "))
		}
		cfg.Theme = value

	case "clipboard":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("clipboard wants true or false, got %q", value)
		}
		cfg.CopyToClipboard = enabled

	default:
		return fmt.Errorf("unknown key %q (keys: model, theme, clipboard)", key)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

func validTheme(name string) bool {
	for _, t := range config.Themes() {
		if t == name {
			return true
		}
	}
	return false
}
