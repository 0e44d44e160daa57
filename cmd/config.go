package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"dwin-go/config"
	"dwin-go/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Print the effective configuration (defaults plus the user config file) as JSON.`,
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configDefaults bool

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configDefaults, "defaults", false, "ignore the user config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := core.NewConfig()
	if !configDefaults {
		if err := config.Load(GetConfigPath(), cfg); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
