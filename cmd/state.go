package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"dwin-go/manager"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Output manager state",
	Long:  `Output the last saved manager state as JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := manager.LoadSnapshot(GetStatePath())
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
