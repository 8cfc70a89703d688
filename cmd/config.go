package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"hamlab-sdr-bridge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("failed to load config", err)
		}
		b, err := config.Render(cfg)
		if err != nil {
			exitWithError("failed to render config", err)
		}
		os.Stdout.Write(b)
	},
}
