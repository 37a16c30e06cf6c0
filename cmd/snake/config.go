package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying the config file over the
built-in defaults. Save the output as ~/.snake/config.yaml to customize it.`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		data, err := config.Marshal(loadConfig())
		if err != nil {
			exitf("%v", err)
		}
		//nolint:errcheck // Nothing to do if stdout is gone
		os.Stdout.Write(data)
	},
}

// configHint names the file the user should edit.
func configHint() string {
	if flagConfig != "" {
		return flagConfig
	}
	if p := config.UserConfigPath(); p != "" {
		return p
	}
	return filepath.Join("configs", "snake.yaml")
}
